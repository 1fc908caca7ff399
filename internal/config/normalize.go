package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/abcadventure/internal/video"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DB, err = expandPath(c.Paths.DB); err != nil {
		return fmt.Errorf("paths.db: %w", err)
	}
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	if c.Reward.WatchdogSeconds <= 0 {
		c.Reward.WatchdogSeconds = defaultWatchdogSeconds
	}
	if c.Reward.UnmuteDelayMillis < 0 {
		c.Reward.UnmuteDelayMillis = defaultUnmuteDelayMillis
	}
	if c.Reward.TickSeconds <= 0 {
		c.Reward.TickSeconds = defaultTickSeconds
	}
	if c.Reward.LockHoldSeconds <= 0 {
		c.Reward.LockHoldSeconds = defaultLockHoldSeconds
	}
	if c.Reward.PlayerReadyTimeoutSeconds <= 0 {
		c.Reward.PlayerReadyTimeoutSeconds = defaultPlayerReadySeconds
	}
	if c.Player.ClipSeconds <= 0 {
		c.Player.ClipSeconds = defaultClipSeconds
	}
	c.Narration.Lang = strings.TrimSpace(c.Narration.Lang)
	if c.Narration.Lang == "" {
		c.Narration.Lang = defaultNarrationLang
	}
	if c.Narration.Rate <= 0 {
		c.Narration.Rate = defaultNarrationRate
	}
	if c.Narration.Pitch <= 0 {
		c.Narration.Pitch = defaultNarrationPitch
	}
	return nil
}

// Validate checks values normalize cannot repair.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	for i, raw := range c.Reward.FallbackVideos {
		if video.ParseID(raw) == "" {
			return fmt.Errorf("reward.fallback_videos[%d]: %q is not a video id or link", i, raw)
		}
	}
	return nil
}

func expandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
