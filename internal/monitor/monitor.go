//go:build linux

package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/tunecord/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	propMetadata    = "org.mpris.MediaPlayer2.Player.Metadata"
	propStatus      = "org.mpris.MediaPlayer2.Player.PlaybackStatus"
	propPosition    = "org.mpris.MediaPlayer2.Player.Position"
	unknownTitle    = "Unknown track"
	unknownArtist   = "Unknown artist"
	warningInterval = time.Minute
)

// MprisProbe reads the current track from MPRIS players on the session bus.
// The bus connection is opened lazily and reopened after a failure.
type MprisProbe struct {
	logger *zap.Logger
	cfg    domain.ConfigProvider
	dial   func() (DBusClient, error)

	mu              sync.Mutex
	conn            DBusClient
	lastDropWarning time.Time // Rate limiting for repeated bus failures
}

// NewMprisProbe creates a new MPRIS probe instance
func NewMprisProbe(logger *zap.Logger, cfg domain.ConfigProvider) *MprisProbe {
	return &MprisProbe{
		logger: logger,
		cfg:    cfg,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
	}
}

// player is one MPRIS player visible on the bus
type player struct {
	name   string
	status string
}

// Snapshot returns the track of the preferred player, or nil when no player
// has a track loaded
func (m *MprisProbe) Snapshot(ctx context.Context) (*domain.TrackSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.conn == nil {
		conn, err := m.dial()
		if err != nil {
			m.logBusWarning("Failed to connect to session bus", err)
			return nil, fmt.Errorf("%w: session bus connection failed: %w", domain.ErrProbe, err)
		}
		m.conn = conn
		m.logger.Info("Connected to session bus")
	}

	players, err := m.listPlayers()
	if err != nil {
		// The bus connection may be gone; reconnect on the next poll
		_ = m.conn.Close()
		m.conn = nil
		m.logBusWarning("Failed to list MPRIS players", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrProbe, err)
	}

	for _, p := range m.rankPlayers(players) {
		snap, err := m.readPlayer(p)
		if err != nil {
			m.logger.Debug("Skipping unreadable player", zap.String("player", p.name), zap.Error(err))
			continue
		}
		if snap != nil {
			return snap, nil
		}
	}
	return nil, nil
}

// Close releases the bus connection
func (m *MprisProbe) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// listPlayers queries D-Bus for currently running MPRIS players
func (m *MprisProbe) listPlayers() ([]player, error) {
	names, err := m.conn.ListNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}

	var players []player
	owners := make(map[string]bool)
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}

		// Some players register several well-known names on one connection
		if owner, err := m.conn.GetNameOwner(name); err == nil {
			if owners[owner] {
				continue
			}
			owners[owner] = true
		}

		p := player{name: name}
		if variant, err := m.conn.GetProperty(name, mprisPath, propStatus); err == nil {
			if s, ok := variant.Value().(string); ok {
				p.status = s
			}
		}
		players = append(players, p)
	}
	return players, nil
}

// rankPlayers orders players: configured names first, then playing before paused.
// Stopped players are dropped, and so are unmatched ones in strict mode.
func (m *MprisProbe) rankPlayers(players []player) []player {
	settings := m.cfg.Current()
	preferred := settings.Players
	strict := settings.StrictPlayers && len(preferred) > 0

	matches := func(name string) bool {
		lower := strings.ToLower(strings.TrimPrefix(name, mprisPrefix))
		for _, p := range preferred {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
	statusRank := func(s string) int {
		switch s {
		case string(domain.StatusPlaying):
			return 0
		case string(domain.StatusPaused):
			return 1
		default:
			return 2
		}
	}

	ranked := make([]player, 0, len(players))
	for _, p := range players {
		if p.status != string(domain.StatusPlaying) && p.status != string(domain.StatusPaused) {
			continue
		}
		if strict && !matches(p.name) {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		mi, mj := matches(ranked[i].name), matches(ranked[j].name)
		if mi != mj {
			return mi
		}
		return statusRank(ranked[i].status) < statusRank(ranked[j].status)
	})
	return ranked
}

// readPlayer builds a snapshot from one player's properties
func (m *MprisProbe) readPlayer(p player) (*domain.TrackSnapshot, error) {
	variant, err := m.conn.GetProperty(p.name, mprisPath, propMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	// SAFE CAST: Some players may return nil or unexpected types if not playing anything
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok || len(metadata) == 0 {
		return nil, nil
	}

	snap := m.parseMetadata(metadata, p.status)
	snap.Player = p.name

	// Position is not part of PropertiesChanged and some players don't implement it
	if posVariant, err := m.conn.GetProperty(p.name, mprisPath, propPosition); err == nil {
		if us, ok := toInt64(posVariant.Value()); ok && us > 0 {
			snap.Position = int(us / int64(time.Second/time.Microsecond))
		}
	}
	if snap.Duration > 0 && snap.Position > snap.Duration {
		snap.Position = snap.Duration
	}

	return snap, nil
}

// parseMetadata converts MPRIS metadata to a track snapshot
func (m *MprisProbe) parseMetadata(metadata map[string]dbus.Variant, status string) *domain.TrackSnapshot {
	snap := &domain.TrackSnapshot{
		IsPlaying: status == string(domain.StatusPlaying),
	}

	// Extract title
	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			snap.Title = strings.TrimSpace(title)
		}
	}

	// Extract artist (can be an array)
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			if len(artists) > 0 {
				snap.Artist = strings.TrimSpace(artists[0])
			}
		case string:
			snap.Artist = strings.TrimSpace(artists)
		default:
			// Some non-compliant players may use unexpected types
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	// Extract album
	if albumVar, ok := metadata["xesam:album"]; ok {
		if album, ok := albumVar.Value().(string); ok {
			snap.Album = album
		}
	}

	// Length is in microseconds
	if lengthVar, ok := metadata["mpris:length"]; ok {
		if us, ok := toInt64(lengthVar.Value()); ok && us > 0 {
			snap.Duration = int(us / int64(time.Second/time.Microsecond))
		}
	}

	if snap.Title == "" {
		snap.Title = unknownTitle
	}
	if snap.Artist == "" {
		snap.Artist = unknownArtist
	}

	return snap
}

// toInt64 accepts the integer types players use for lengths and positions
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// logBusWarning logs bus failures at most once per interval to avoid a warning every poll
func (m *MprisProbe) logBusWarning(msg string, err error) {
	now := time.Now()
	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn(msg, zap.Error(err))
		m.lastDropWarning = now
	}
}
