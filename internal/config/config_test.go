package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeConfig(t *testing.T, path, body string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}
}

func TestNewAppConfig_Defaults(t *testing.T) {
	t.Setenv("TUNECORD_POLL_INTERVAL", "")
	cfg := NewAppConfig(zap.NewNop(), Source{Path: filepath.Join(t.TempDir(), "missing.toml")})

	s := cfg.Current()
	if s.PollInterval != 5*time.Second {
		t.Errorf("PollInterval: expected 5s, got %v", s.PollInterval)
	}
	if !s.ShowTimestamp {
		t.Error("ShowTimestamp should default to true")
	}
	if s.CoverSize != "400x400" {
		t.Errorf("CoverSize: expected 400x400, got %s", s.CoverSize)
	}
	if s.CacheNotFound {
		t.Error("CacheNotFound should default to false")
	}
	if s.ClientID == "" {
		t.Error("ClientID should have a default")
	}
}

func TestNewAppConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `
poll_interval = 3
show_timestamp = false
cache_not_found = true
players = [" Spotify ", "VLC"]

[discord]
client_id = "42"

[yandex]
token = "secret"
cover_size = "200x200"

[[buttons]]
label = "GitHub"
url = "https://github.com/genricoloni/tunecord"
`, time.Now())

	s := NewAppConfig(zap.NewNop(), Source{Path: path}).Current()

	if s.PollInterval != 3*time.Second {
		t.Errorf("PollInterval: expected 3s, got %v", s.PollInterval)
	}
	if s.ShowTimestamp {
		t.Error("ShowTimestamp: expected false")
	}
	if !s.CacheNotFound {
		t.Error("CacheNotFound: expected true")
	}
	if s.ClientID != "42" || s.Token != "secret" || s.CoverSize != "200x200" {
		t.Errorf("unexpected discord/yandex settings: %+v", s)
	}
	if strings.Join(s.Players, ",") != "spotify,vlc" {
		t.Errorf("Players: expected spotify,vlc, got %v", s.Players)
	}
	if len(s.Buttons) != 1 || s.Buttons[0].Label != "GitHub" {
		t.Errorf("Buttons: unexpected %+v", s.Buttons)
	}
}

func TestNewAppConfig_InvalidValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, `
poll_interval = 0

[yandex]
cover_size = "huge"
search_rate = -1

[[buttons]]
label = "a"
url = "https://a.example"

[[buttons]]
label = ""
url = "https://b.example"

[[buttons]]
label = "c"
url = "https://c.example"
`, time.Now())

	s := NewAppConfig(zap.NewNop(), Source{Path: path}).Current()

	if s.PollInterval != 5*time.Second {
		t.Errorf("PollInterval: expected default 5s, got %v", s.PollInterval)
	}
	if s.CoverSize != "400x400" {
		t.Errorf("CoverSize: expected default, got %s", s.CoverSize)
	}
	if s.SearchRate != 2 {
		t.Errorf("SearchRate: expected default, got %v", s.SearchRate)
	}
	if len(s.Buttons) != 1 {
		t.Errorf("Buttons: expected only the valid one, got %+v", s.Buttons)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, time.Duration, bool, []string)
	}{
		{
			name: "Overrides",
			env: map[string]string{
				"TUNECORD_POLL_INTERVAL":  "10",
				"TUNECORD_SHOW_TIMESTAMP": "false",
				"TUNECORD_PLAYERS":        "spotify, ,mpv",
			},
			check: func(t *testing.T, d time.Duration, ts bool, players []string) {
				if d != 10*time.Second || ts || strings.Join(players, ",") != "spotify,mpv" {
					t.Errorf("unexpected result: %v %v %v", d, ts, players)
				}
			},
		},
		{
			name:    "Bad interval",
			env:     map[string]string{"TUNECORD_POLL_INTERVAL": "-3"},
			wantErr: true,
			check: func(t *testing.T, d time.Duration, _ bool, _ []string) {
				if d != 5*time.Second {
					t.Errorf("expected default interval, got %v", d)
				}
			},
		},
		{
			name:    "Bad bool",
			env:     map[string]string{"TUNECORD_SHOW_TIMESTAMP": "maybe"},
			wantErr: true,
			check: func(t *testing.T, _ time.Duration, ts bool, _ []string) {
				if !ts {
					t.Error("expected default show_timestamp")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			err := applyEnv(&s, func(k string) string { return tt.env[k] })
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			tt.check(t, s.PollInterval, s.ShowTimestamp, s.Players)
		})
	}
}

func TestCurrent_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	base := time.Now().Add(-time.Hour)
	writeConfig(t, path, "poll_interval = 4\n", base)

	cfg := NewAppConfig(zap.NewNop(), Source{Path: path})
	if got := cfg.Current().PollInterval; got != 4*time.Second {
		t.Fatalf("expected 4s, got %v", got)
	}

	writeConfig(t, path, "poll_interval = 9\nshow_timestamp = false\n", base.Add(time.Minute))

	s := cfg.Current()
	if s.PollInterval != 9*time.Second {
		t.Errorf("expected reload to 9s, got %v", s.PollInterval)
	}
	if s.ShowTimestamp {
		t.Error("expected show_timestamp to be reloaded")
	}
}

func TestCurrent_MalformedReloadKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	base := time.Now().Add(-time.Hour)
	writeConfig(t, path, "poll_interval = 2\n[yandex]\ntoken = \"secret\"\n", base)

	cfg := NewAppConfig(zap.NewNop(), Source{Path: path})
	if s := cfg.Current(); s.PollInterval != 2*time.Second || s.Token != "secret" {
		t.Fatalf("unexpected initial settings: %+v", s)
	}

	// Half-saved edit
	writeConfig(t, path, "poll_interval = 2\n[yandex\ntoken = \"sec", base.Add(time.Minute))

	s := cfg.Current()
	if s.PollInterval != 2*time.Second || s.Token != "secret" {
		t.Errorf("expected previous settings kept, got interval=%v token=%q", s.PollInterval, s.Token)
	}

	// The next good save is picked up again
	writeConfig(t, path, "poll_interval = 7\n[yandex]\ntoken = \"secret\"\n", base.Add(2*time.Minute))
	if got := cfg.Current().PollInterval; got != 7*time.Second {
		t.Errorf("expected reload to 7s, got %v", got)
	}
}

func TestNewAppConfig_StrictPlayers(t *testing.T) {
	t.Setenv("TUNECORD_STRICT_PLAYERS", "")
	if !Defaults().StrictPlayers {
		t.Fatal("players must be strict by default")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "strict_players = false\n", time.Now())
	if NewAppConfig(zap.NewNop(), Source{Path: path}).Current().StrictPlayers {
		t.Error("expected strict_players = false from file")
	}

	t.Setenv("TUNECORD_STRICT_PLAYERS", "true")
	if !NewAppConfig(zap.NewNop(), Source{Path: path}).Current().StrictPlayers {
		t.Error("expected env to override the file")
	}
}

func TestValidSize(t *testing.T) {
	tests := map[string]bool{
		"400x400":   true,
		"1000x1000": true,
		"400":       false,
		"0x400":     false,
		"axb":       false,
	}
	for in, want := range tests {
		if got := validSize(in); got != want {
			t.Errorf("validSize(%q): expected %v, got %v", in, want, got)
		}
	}
}
