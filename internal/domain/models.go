package domain

import "time"

// PlayerStatus represents the playback status reported by a media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// TrackSnapshot is a point-in-time read of the media playing on this machine.
// A new value is produced on every poll and never modified afterwards.
type TrackSnapshot struct {
	// Title of the currently playing track
	Title string
	// Artist name (first artist when the player reports several)
	Artist string
	// Album name, may be empty
	Album string
	// IsPlaying is false when the player is paused
	IsPlaying bool
	// Duration of the track in seconds
	Duration int
	// Position inside the track in seconds
	Position int
	// Player is the bus name of the player the snapshot was read from
	Player string
}

// Key returns the update key used to decide whether a presence push is needed.
func (t TrackSnapshot) Key() UpdateKey {
	return UpdateKey{Title: t.Title, Artist: t.Artist, IsPlaying: t.IsPlaying}
}

// UpdateKey identifies what is shown in the presence display.
// Position is deliberately absent: it changes on every poll.
type UpdateKey struct {
	Title     string
	Artist    string
	IsPlaying bool
}

// ConnectionState is the state of the presence sink connection
type ConnectionState int

const (
	// StateDisconnected is the initial state and the state after Stop
	StateDisconnected ConnectionState = iota
	// StateConnecting is set while a connection attempt is in flight
	StateConnecting
	// StateConnected means the last connect or push succeeded
	StateConnected
	// StateFailed means the last connect or push failed
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IconTier is the colour of the status indicator shown by the shell
type IconTier int

const (
	// TierRed: presence sink not connected
	TierRed IconTier = iota
	// TierGreen: connected, track playing
	TierGreen
	// TierYellow: connected, track paused
	TierYellow
	// TierGray: connected, nothing playing
	TierGray
)

func (t IconTier) String() string {
	switch t {
	case TierRed:
		return "red"
	case TierGreen:
		return "green"
	case TierYellow:
		return "yellow"
	case TierGray:
		return "gray"
	default:
		return "unknown"
	}
}

// EngineStatus is the snapshot of engine state published to status readers.
// A published value is never modified; the engine replaces it as a whole.
type EngineStatus struct {
	State     ConnectionState
	Discord   string // connection status text
	Music     string // probe status text
	LastError string
	Tier      IconTier
	Tooltip   string
	Menu      string // track line for the shell menu
	Track     *TrackSnapshot
	Cover     string
	Attempts  int // connection attempts since the last success
	Tick      uint64
	UpdatedAt time.Time
}

// Button is a link rendered under the presence activity
type Button struct {
	Label string `toml:"label" json:"label"`
	URL   string `toml:"url" json:"url"`
}

// Activity is one presence update
type Activity struct {
	Details    string
	State      string
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
	// Start and End are set together when the display should count down
	Start   *time.Time
	End     *time.Time
	Buttons []Button
}

// SearchResult is the best catalog match for a track
type SearchResult struct {
	// CoverTemplate contains a "%%" placeholder for the image size
	CoverTemplate string
	Title         string
	Artist        string
	Album         string
}

// Settings is the typed configuration read by the engine on every tick
type Settings struct {
	PollInterval  time.Duration
	ShowTimestamp bool
	ClientID      string
	Token         string
	CoverSize     string
	Players       []string
	StrictPlayers bool // only accept players matching Players
	FallbackImage string
	CacheNotFound bool
	Buttons       []Button
	SearchRate    float64
}
