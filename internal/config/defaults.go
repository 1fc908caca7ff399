package config

import "github.com/abhisek/abcadventure/internal/video"

const (
	defaultWatchdogSeconds    = 5
	defaultUnmuteDelayMillis  = 300
	defaultTickSeconds        = 1
	defaultLockHoldSeconds    = 2
	defaultPlayerReadySeconds = 8
	defaultClipSeconds        = 20
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
	defaultNarrationLang      = "en-US"
	defaultNarrationRate      = 0.9
	defaultNarrationPitch     = 1.05
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Reward: Reward{
			WatchdogSeconds:           defaultWatchdogSeconds,
			UnmuteDelayMillis:         defaultUnmuteDelayMillis,
			TickSeconds:               defaultTickSeconds,
			LockHoldSeconds:           defaultLockHoldSeconds,
			PlayerReadyTimeoutSeconds: defaultPlayerReadySeconds,
			FallbackVideos:            append([]string(nil), video.DefaultFallbacks...),
		},
		Player: Player{
			ClipSeconds: defaultClipSeconds,
		},
		Narration: Narration{
			Lang:  defaultNarrationLang,
			Rate:  defaultNarrationRate,
			Pitch: defaultNarrationPitch,
		},
	}
}
