//go:build linux

package monitor

import (
	"context"
	"fmt"
	"testing"

	"github.com/genricoloni/tunecord/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

type staticConfig domain.Settings

func (s staticConfig) Current() domain.Settings { return domain.Settings(s) }

func newTestProbe(players ...string) *MprisProbe {
	return NewMprisProbe(zap.NewNop(), staticConfig{Players: players})
}

func newStrictTestProbe(players ...string) *MprisProbe {
	return NewMprisProbe(zap.NewNop(), staticConfig{Players: players, StrictPlayers: true})
}

// TestParseMetadata_DataVariations tests valid parsing variations (Artist types, lengths, missing fields)
func TestParseMetadata_DataVariations(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]dbus.Variant
		status   string
		check    func(*testing.T, *domain.TrackSnapshot)
	}{
		{
			name: "Complete Metadata",
			metadata: map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Bohemian Rhapsody"),
				"xesam:artist": dbus.MakeVariant([]string{"Queen", "Freddie Mercury"}),
				"xesam:album":  dbus.MakeVariant("A Night at the Opera"),
				"mpris:length": dbus.MakeVariant(int64(354_000_000)),
			},
			status: "Playing",
			check: func(t *testing.T, s *domain.TrackSnapshot) {
				if s.Title != "Bohemian Rhapsody" || s.Artist != "Queen" || s.Album != "A Night at the Opera" {
					t.Errorf("unexpected snapshot: %+v", s)
				}
				if s.Duration != 354 {
					t.Errorf("Duration: expected 354, got %d", s.Duration)
				}
				if !s.IsPlaying {
					t.Error("expected IsPlaying")
				}
			},
		},
		{
			name: "Artist as String (Non-compliant)",
			metadata: map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Song"),
				"xesam:artist": dbus.MakeVariant("Single Artist"),
			},
			status: "Paused",
			check: func(t *testing.T, s *domain.TrackSnapshot) {
				if s.Artist != "Single Artist" {
					t.Errorf("Expected 'Single Artist', got '%s'", s.Artist)
				}
				if s.IsPlaying {
					t.Error("paused track must not be playing")
				}
			},
		},
		{
			name: "Length as uint64",
			metadata: map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Song"),
				"mpris:length": dbus.MakeVariant(uint64(90_500_000)),
			},
			status: "Playing",
			check: func(t *testing.T, s *domain.TrackSnapshot) {
				if s.Duration != 90 {
					t.Errorf("Duration: expected 90, got %d", s.Duration)
				}
			},
		},
		{
			name: "Missing Title and Artist",
			metadata: map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant(42),
			},
			status: "Playing",
			check: func(t *testing.T, s *domain.TrackSnapshot) {
				if s.Title != unknownTitle || s.Artist != unknownArtist {
					t.Errorf("expected placeholders, got %q / %q", s.Title, s.Artist)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newTestProbe().parseMetadata(tt.metadata, tt.status))
		})
	}
}

func TestRankPlayers(t *testing.T) {
	players := []player{
		{name: "org.mpris.MediaPlayer2.vlc", status: "Playing"},
		{name: "org.mpris.MediaPlayer2.firefox.instance42", status: "Paused"},
		{name: "org.mpris.MediaPlayer2.YandexMusic", status: "Paused"},
		{name: "org.mpris.MediaPlayer2.mpv", status: "Stopped"},
	}

	tests := []struct {
		name      string
		preferred []string
		strict    bool
		expected  []string
	}{
		{
			name:      "Preferred player first",
			preferred: []string{"yandex"},
			expected: []string{
				"org.mpris.MediaPlayer2.YandexMusic",
				"org.mpris.MediaPlayer2.vlc",
				"org.mpris.MediaPlayer2.firefox.instance42",
			},
		},
		{
			name:      "Strict mode drops unmatched players",
			preferred: []string{"yandex", "music"},
			strict:    true,
			expected:  []string{"org.mpris.MediaPlayer2.YandexMusic"},
		},
		{
			name:     "Strict mode without names accepts everyone",
			strict:   true,
			expected: []string{"org.mpris.MediaPlayer2.vlc", "org.mpris.MediaPlayer2.firefox.instance42", "org.mpris.MediaPlayer2.YandexMusic"},
		},
		{
			name:      "Playing before paused without preference",
			preferred: nil,
			expected: []string{
				"org.mpris.MediaPlayer2.vlc",
				"org.mpris.MediaPlayer2.firefox.instance42",
				"org.mpris.MediaPlayer2.YandexMusic",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := newTestProbe(tt.preferred...)
			if tt.strict {
				probe = newStrictTestProbe(tt.preferred...)
			}
			got := probe.rankPlayers(players)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d players, got %d: %+v", len(tt.expected), len(got), got)
			}
			for i, p := range got {
				if p.name != tt.expected[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.expected[i], p.name)
				}
			}
		})
	}
}

func TestSnapshot_NoPlayers(t *testing.T) {
	probe := newTestProbe()
	probe.conn = &noopDBusClient{}

	snap, err := probe.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestSnapshot_CancelledContext(t *testing.T) {
	probe := newTestProbe()
	probe.conn = &noopDBusClient{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := probe.Snapshot(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// noopDBusClient is a stub to prevent panics during unit tests where
// we don't want to use full mocks but code calls GetProperty/ListNames.
type noopDBusClient struct{}

func (n *noopDBusClient) Close() error                        { return nil }
func (n *noopDBusClient) ListNames() ([]string, error)        { return []string{}, nil }
func (n *noopDBusClient) GetNameOwner(string) (string, error) { return "", fmt.Errorf("noop") }
func (n *noopDBusClient) GetProperty(string, string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
