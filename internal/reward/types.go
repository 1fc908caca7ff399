// Package reward holds the learner's persisted progress and the pure
// bookkeeping that turns learned letters into reward-video sessions.
//
// Every mutator takes a State by value and returns the next State; callers
// persist the result. Nothing here touches storage or timers.
package reward

import (
	"errors"

	"github.com/abhisek/abcadventure/internal/video"
)

// Setting bounds. Values outside these ranges are clamped on read and write.
const (
	MinLettersPerReward = 1
	MaxLettersPerReward = 26
	MinRewardSeconds    = 10
	MaxRewardSeconds    = 600

	// MaxActiveSeconds bounds the persisted remaining countdown.
	MaxActiveSeconds = 600

	// Points awarded per newly learned letter and per correct quiz answer.
	LearnPoints = 10
	QuizPoints  = 5
)

var (
	ErrInvalidVideo = errors.New("video reference is not a valid YouTube link or id")
	ErrInvalidPIN   = errors.New("PIN must be 4 to 8 digits")
	ErrWrongPIN     = errors.New("wrong PIN")
)

// Orientation is the reward video frame orientation.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// NormalizeOrientation maps anything other than portrait to landscape.
func NormalizeOrientation(v string) Orientation {
	if Orientation(v) == Portrait {
		return Portrait
	}
	return Landscape
}

// Settings are the parent-controlled knobs.
type Settings struct {
	LettersPerReward  int         `json:"lettersPerReward"`
	RewardSeconds     int         `json:"rewardSeconds"`
	YouTubeVideoID    string      `json:"youtubeVideoId"`
	RewardOrientation Orientation `json:"rewardOrientation"`
	ParentPIN         string      `json:"parentPin"`
	RewardEnabled     bool        `json:"rewardEnabled"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		LettersPerReward:  3,
		RewardSeconds:     30,
		YouTubeVideoID:    "-yG4mBzGwq8",
		RewardOrientation: Landscape,
		ParentPIN:         "1234",
		RewardEnabled:     true,
	}
}

// Progress is the learner's letter progress and reward bookkeeping.
type Progress struct {
	LearnedLetters    []string `json:"learnedLetters"`
	WatchedSessions   int      `json:"watchedSessions"`
	Score             int      `json:"score"`
	Streak            int      `json:"streak"`
	LastLearnedLetter string   `json:"lastLearnedLetter"`
}

// ActiveReward is the in-flight session snapshot written on every countdown
// tick so a reload can resume.
type ActiveReward struct {
	InProgress       bool `json:"inProgress"`
	RemainingSeconds int  `json:"remainingSeconds"`
	Consumed         bool `json:"consumed"`
}

// Normalize clamps RemainingSeconds and forces InProgress off at zero.
func (a ActiveReward) Normalize() ActiveReward {
	a.RemainingSeconds = clamp(a.RemainingSeconds, 0, MaxActiveSeconds)
	if a.RemainingSeconds == 0 {
		a.InProgress = false
	}
	return a
}

// State is the whole persisted record.
type State struct {
	Settings Settings `json:"settings"`
	Progress
	RewardPlayback video.Position `json:"rewardPlayback"`
	ActiveReward   ActiveReward   `json:"activeReward"`
}

// NewState creates the first-run state for settings.
func NewState(settings Settings) State {
	return State{
		Settings:       settings,
		Progress:       Progress{LearnedLetters: []string{}},
		RewardPlayback: video.Position{VideoID: settings.YouTubeVideoID},
	}
}

// Status is the derived unlock view of a State.
type Status struct {
	LearnedCount         int
	LettersPerReward     int
	EarnedSessions       int
	WatchedSessions      int
	AvailableSessions    int
	ProgressToNextReward int
	NextMilestoneAt      int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
