// Package config loads the application configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains file locations.
type Paths struct {
	DB string `toml:"db"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File, when set, receives logs instead of stderr. The TUI needs this to
	// keep log lines out of the rendered frame.
	File string `toml:"file"`
}

// Reward contains the playback orchestrator timings and candidate fallbacks.
type Reward struct {
	WatchdogSeconds           int      `toml:"watchdog_seconds"`
	UnmuteDelayMillis         int      `toml:"unmute_delay_ms"`
	TickSeconds               int      `toml:"tick_seconds"`
	LockHoldSeconds           int      `toml:"lock_hold_seconds"`
	PlayerReadyTimeoutSeconds int      `toml:"player_ready_timeout_seconds"`
	FallbackVideos            []string `toml:"fallback_videos"`
}

// Player configures the terminal player stand-in.
type Player struct {
	ClipSeconds   int      `toml:"clip_seconds"`
	BlockedVideos []string `toml:"blocked_videos"`
	// AutoplayBlocked makes the player report blocked autoplay for the
	// first play of every clip, exercising the muted retry path.
	AutoplayBlocked bool `toml:"autoplay_blocked"`
}

// Narration configures spoken prompts. An empty Command keeps narration
// silent. Arguments may use {text}, {lang}, {rate} and {pitch}.
type Narration struct {
	Command []string `toml:"command"`
	Lang    string   `toml:"lang"`
	Rate    float64  `toml:"rate"`
	Pitch   float64  `toml:"pitch"`
}

// Config is the whole configuration file.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Reward    Reward    `toml:"reward"`
	Player    Player    `toml:"player"`
	Narration Narration `toml:"narration"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/abcadventure/config.toml.
func DefaultConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "abcadventure", "config.toml"), nil
}

// Load reads path (or the default path when empty). A missing file yields
// the defaults. The result is normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("ABC_DB"); ok && strings.TrimSpace(v) != "" {
		c.Paths.DB = v
	}
	if v, ok := os.LookupEnv("ABC_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv("ABC_LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
}

// WatchdogTimeout is how long a candidate may take to report playing.
func (r Reward) WatchdogTimeout() time.Duration {
	return time.Duration(r.WatchdogSeconds) * time.Second
}

// UnmuteDelay is the pause between first playing and unmuting.
func (r Reward) UnmuteDelay() time.Duration {
	return time.Duration(r.UnmuteDelayMillis) * time.Millisecond
}

// TickInterval is the countdown period.
func (r Reward) TickInterval() time.Duration {
	return time.Duration(r.TickSeconds) * time.Second
}

// LockHold is the sustained press needed to request unlocking.
func (r Reward) LockHold() time.Duration {
	return time.Duration(r.LockHoldSeconds) * time.Second
}

// PlayerReadyTimeout bounds the wait for the player to become ready.
func (r Reward) PlayerReadyTimeout() time.Duration {
	return time.Duration(r.PlayerReadyTimeoutSeconds) * time.Second
}
