package domain

import "context"

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/tunecord/internal/domain Probe,PresenceSink,Searcher,CoverResolver,ConfigProvider

// Probe reads the currently playing media from the local system.
// Implementations hold no state the engine relies on between calls.
type Probe interface {
	// Snapshot returns the current track, or nil when nothing is playing
	Snapshot(ctx context.Context) (*TrackSnapshot, error)
}

// PresenceSink is a stateful connection to the presence display.
// The connection may die silently between calls; a failing Push or Clear
// signals that it is gone.
type PresenceSink interface {
	// Connect opens the connection and performs the handshake
	Connect(ctx context.Context) error

	// Push replaces the displayed activity
	Push(ctx context.Context, activity Activity) error

	// Clear removes the displayed activity
	Clear(ctx context.Context) error

	// Disconnect closes the connection. Safe to call in any state.
	Disconnect() error
}

// Searcher looks a track up in the remote catalog
type Searcher interface {
	// Search returns the best match, or nil when the catalog has none
	Search(ctx context.Context, title, artist string) (*SearchResult, error)
}

// CoverResolver maps a track to a cover image URL
type CoverResolver interface {
	// ResolveCover never fails; ok is false when no cover is known
	ResolveCover(ctx context.Context, title, artist string) (url string, ok bool)
}

// ConfigProvider supplies the current settings.
// It is consulted at the start of every tick.
type ConfigProvider interface {
	Current() Settings
}

// StatusSource exposes the last published engine status
type StatusSource interface {
	CurrentStatus() EngineStatus
}
