package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultClientID      = "1456892713621258319"
	defaultCoverSize     = "400x400"
	defaultFallbackImage = "yandex_music"
	defaultSearchRate    = 2.0
	maxButtons           = 2
)

// Source tells the config layer where to look for the settings file
// and which log level the daemon was started with.
type Source struct {
	Path     string
	LogLevel string
}

// DefaultSource returns the source used when no flags are given
func DefaultSource() Source {
	path := os.Getenv("TUNECORD_CONFIG")
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "tunecord", "config.toml")
		}
	}
	level := os.Getenv("TUNECORD_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	return Source{Path: path, LogLevel: level}
}

// fileConfig mirrors the TOML layout. Pointers distinguish "unset" from zero values.
type fileConfig struct {
	PollInterval  *int            `toml:"poll_interval"`
	ShowTimestamp *bool           `toml:"show_timestamp"`
	CacheNotFound *bool           `toml:"cache_not_found"`
	StrictPlayers *bool           `toml:"strict_players"`
	Discord       discordSection  `toml:"discord"`
	Yandex        yandexSection   `toml:"yandex"`
	Players       []string        `toml:"players"`
	Buttons       []domain.Button `toml:"buttons"`
}

type discordSection struct {
	ClientID      string `toml:"client_id"`
	FallbackImage string `toml:"fallback_image"`
}

type yandexSection struct {
	Token      string   `toml:"token"`
	CoverSize  string   `toml:"cover_size"`
	SearchRate *float64 `toml:"search_rate"`
}

// AppConfig holds application configuration.
// Current re-reads the settings file whenever its modification time changes.
type AppConfig struct {
	logger  *zap.Logger
	path    string
	getenv  func(string) string
	mu      sync.Mutex
	modTime time.Time
	current domain.Settings
}

// NewAppConfig creates a new application configuration instance
func NewAppConfig(logger *zap.Logger, src Source) *AppConfig {
	c := &AppConfig{
		logger: logger,
		path:   expandPath(src.Path),
		getenv: os.Getenv,
	}
	c.current = c.load(nil)

	logger.Info("Configuration loaded",
		zap.String("path", c.path),
		zap.Duration("pollInterval", c.current.PollInterval),
		zap.Bool("showTimestamp", c.current.ShowTimestamp),
		zap.Strings("players", c.current.Players),
		zap.Bool("token", c.current.Token != ""))

	return c
}

// Defaults returns the settings used when nothing is configured
func Defaults() domain.Settings {
	return domain.Settings{
		PollInterval:  defaultPollInterval,
		ShowTimestamp: true,
		ClientID:      defaultClientID,
		CoverSize:     defaultCoverSize,
		Players:       []string{"yandex", "music"},
		StrictPlayers: true,
		FallbackImage: defaultFallbackImage,
		SearchRate:    defaultSearchRate,
	}
}

// Current returns the latest settings, reloading the file if it changed
func (c *AppConfig) Current() domain.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return c.current
	}

	info, err := os.Stat(c.path)
	if err != nil || info.ModTime().Equal(c.modTime) {
		return c.current
	}

	c.current = c.load(&c.current)
	c.logger.Info("Configuration reloaded",
		zap.String("path", c.path),
		zap.Duration("pollInterval", c.current.PollInterval),
		zap.Bool("showTimestamp", c.current.ShowTimestamp))
	return c.current
}

// load builds settings from defaults, the file and the environment, in that order.
// When the file cannot be parsed, prev is kept as a whole if there is one,
// so a half-written edit does not drop the token until the next save.
func (c *AppConfig) load(prev *domain.Settings) domain.Settings {
	s := Defaults()

	if c.path != "" {
		if info, err := os.Stat(c.path); err == nil {
			c.modTime = info.ModTime()
			fc, err := readFile(c.path)
			if err != nil && prev != nil {
				c.logger.Warn("Ignoring unreadable configuration file, previous settings kept",
					zap.String("path", c.path), zap.Error(err))
				return *prev
			} else if err != nil {
				c.logger.Warn("Ignoring unreadable configuration file",
					zap.String("path", c.path), zap.Error(err))
			} else if err := applyFile(&s, fc); err != nil {
				c.logger.Warn("Invalid values in configuration file, defaults kept",
					zap.String("path", c.path), zap.Errors("problems", multierr.Errors(err)))
			}
		}
	}

	if err := applyEnv(&s, c.getenv); err != nil {
		c.logger.Warn("Invalid values in environment, defaults kept",
			zap.Errors("problems", multierr.Errors(err)))
	}

	return s
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &fc, nil
}

// applyFile copies valid file values into s and reports every invalid one
func applyFile(s *domain.Settings, fc *fileConfig) error {
	var errs error

	if fc.PollInterval != nil {
		if *fc.PollInterval > 0 {
			s.PollInterval = time.Duration(*fc.PollInterval) * time.Second
		} else {
			errs = multierr.Append(errs, fmt.Errorf("poll_interval must be > 0, got %d", *fc.PollInterval))
		}
	}
	if fc.ShowTimestamp != nil {
		s.ShowTimestamp = *fc.ShowTimestamp
	}
	if fc.CacheNotFound != nil {
		s.CacheNotFound = *fc.CacheNotFound
	}
	if fc.Discord.ClientID != "" {
		s.ClientID = fc.Discord.ClientID
	}
	if fc.Discord.FallbackImage != "" {
		s.FallbackImage = fc.Discord.FallbackImage
	}
	if fc.Yandex.Token != "" {
		s.Token = fc.Yandex.Token
	}
	if fc.Yandex.CoverSize != "" {
		if validSize(fc.Yandex.CoverSize) {
			s.CoverSize = fc.Yandex.CoverSize
		} else {
			errs = multierr.Append(errs, fmt.Errorf("cover_size must look like 400x400, got %q", fc.Yandex.CoverSize))
		}
	}
	if fc.Yandex.SearchRate != nil {
		if *fc.Yandex.SearchRate > 0 {
			s.SearchRate = *fc.Yandex.SearchRate
		} else {
			errs = multierr.Append(errs, fmt.Errorf("search_rate must be > 0, got %v", *fc.Yandex.SearchRate))
		}
	}
	if len(fc.Players) > 0 {
		s.Players = normalizePlayers(fc.Players)
	}
	if fc.StrictPlayers != nil {
		s.StrictPlayers = *fc.StrictPlayers
	}

	for i, b := range fc.Buttons {
		if i >= maxButtons {
			errs = multierr.Append(errs, fmt.Errorf("at most %d buttons are shown, %d ignored", maxButtons, len(fc.Buttons)-maxButtons))
			break
		}
		if b.Label == "" || !strings.HasPrefix(b.URL, "http") {
			errs = multierr.Append(errs, fmt.Errorf("button %d needs a label and an http(s) url", i))
			continue
		}
		s.Buttons = append(s.Buttons, b)
	}

	return errs
}

// applyEnv overrides settings from TUNECORD_* variables
func applyEnv(s *domain.Settings, getenv func(string) string) error {
	var errs error

	if v := getenv("TUNECORD_POLL_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("TUNECORD_POLL_INTERVAL must be a positive integer, got %q", v))
		} else {
			s.PollInterval = time.Duration(n) * time.Second
		}
	}
	if v := getenv("TUNECORD_SHOW_TIMESTAMP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("TUNECORD_SHOW_TIMESTAMP must be a boolean, got %q", v))
		} else {
			s.ShowTimestamp = b
		}
	}
	if v := getenv("TUNECORD_CLIENT_ID"); v != "" {
		s.ClientID = v
	}
	if v := getenv("TUNECORD_YANDEX_TOKEN"); v != "" {
		s.Token = v
	}
	if v := getenv("TUNECORD_COVER_SIZE"); v != "" {
		if validSize(v) {
			s.CoverSize = v
		} else {
			errs = multierr.Append(errs, fmt.Errorf("TUNECORD_COVER_SIZE must look like 400x400, got %q", v))
		}
	}
	if v := getenv("TUNECORD_PLAYERS"); v != "" {
		s.Players = normalizePlayers(strings.Split(v, ","))
	}
	if v := getenv("TUNECORD_STRICT_PLAYERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("TUNECORD_STRICT_PLAYERS must be a boolean, got %q", v))
		} else {
			s.StrictPlayers = b
		}
	}

	return errs
}

func validSize(size string) bool {
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return false
	}
	wn, err1 := strconv.Atoi(w)
	hn, err2 := strconv.Atoi(h)
	return err1 == nil && err2 == nil && wn > 0 && hn > 0
}

func normalizePlayers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
