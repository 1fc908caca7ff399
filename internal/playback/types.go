// Package playback runs reward sessions: it drives a video player through a
// list of candidate videos, counts down the reward time, snapshots progress
// for resume, and guards the playback controls behind a parental lock.
//
// The Orchestrator is single-threaded. Every method, timer callback and
// player event must be delivered on the same goroutine; the Scheduler and
// the player's EventSink are how callers arrange that.
package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/abcadventure/internal/config"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/store"
	"github.com/abhisek/abcadventure/internal/video"
)

var (
	ErrRewardsDisabled    = errors.New("rewards are disabled")
	ErrSessionActive      = errors.New("a reward session is already running")
	ErrNoSessionAvailable = errors.New("no reward session is unlocked yet")
	ErrPlayerNotReady     = errors.New("video player did not become ready")
	ErrNothingToResume    = errors.New("no reward is waiting to be resumed")
	ErrNoPINPrompt        = errors.New("no PIN prompt is open")
)

// State is the orchestrator's position in the session lifecycle.
type State int

const (
	Idle State = iota
	Starting
	AwaitingManualResume
	PlayingCandidate
	CountingDown
	Ended
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case AwaitingManualResume:
		return "awaiting_manual_resume"
	case PlayingCandidate:
		return "playing_candidate"
	case CountingDown:
		return "counting_down"
	case Ended:
		return "ended"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Active reports whether a session exists in this state.
func (s State) Active() bool {
	switch s {
	case Starting, AwaitingManualResume, PlayingCandidate, CountingDown:
		return true
	}
	return false
}

// Trigger says why a session is being started.
type Trigger int

const (
	// TriggerAuto starts because an unlock just became available.
	TriggerAuto Trigger = iota
	// TriggerManual starts from an explicit request.
	TriggerManual
)

func (t Trigger) String() string {
	if t == TriggerManual {
		return "manual"
	}
	return "auto"
}

// Progress is the slice of the progress service the orchestrator needs.
type Progress interface {
	State() reward.State
	Consume(ctx context.Context) (bool, error)
	SaveSnapshot(ctx context.Context, pos video.Position, active reward.ActiveReward) error
	RecordEvent(ctx context.Context, data store.RewardEventData)
}

// Narrator is stopped whenever reward playback or the PIN prompt takes over.
type Narrator interface {
	Stop()
}

// Options holds the orchestrator timings.
type Options struct {
	Watchdog     time.Duration
	UnmuteDelay  time.Duration
	Tick         time.Duration
	LockHold     time.Duration
	ReadyTimeout time.Duration
	Fallbacks    []string
}

// DefaultOptions mirrors the built-in configuration defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Reward)
}

// OptionsFromConfig converts the [reward] config section.
func OptionsFromConfig(r config.Reward) Options {
	return Options{
		Watchdog:     r.WatchdogTimeout(),
		UnmuteDelay:  r.UnmuteDelay(),
		Tick:         r.TickInterval(),
		LockHold:     r.LockHold(),
		ReadyTimeout: r.PlayerReadyTimeout(),
		Fallbacks:    append([]string(nil), r.FallbackVideos...),
	}
}

// FormatCountdown renders seconds as zero-padded MM:SS.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
