package reward

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/abcadventure/internal/video"
)

// Fallbacks used by UpdateSettings when a numeric field is present but zero.
const (
	formLettersPerReward = 5
	formRewardSeconds    = 180
)

var pinPattern = regexp.MustCompile(`^\d{4,8}$`)

// ValidPIN reports whether pin is 4-8 ASCII digits.
func ValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// NormalizeSettings clamps every field into range and replaces malformed
// values with defaults.
func NormalizeSettings(s Settings) Settings {
	def := DefaultSettings()
	out := Settings{
		LettersPerReward:  clamp(orDefault(s.LettersPerReward, def.LettersPerReward), MinLettersPerReward, MaxLettersPerReward),
		RewardSeconds:     clamp(orDefault(s.RewardSeconds, def.RewardSeconds), MinRewardSeconds, MaxRewardSeconds),
		YouTubeVideoID:    video.ParseID(s.YouTubeVideoID),
		RewardOrientation: NormalizeOrientation(string(s.RewardOrientation)),
		ParentPIN:         s.ParentPIN,
		RewardEnabled:     s.RewardEnabled,
	}
	if out.YouTubeVideoID == "" {
		out.YouTubeVideoID = def.YouTubeVideoID
	}
	if !ValidPIN(out.ParentPIN) {
		out.ParentPIN = def.ParentPIN
	}
	return out
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// SettingsUpdate is a partial settings change from the parent area. Nil
// fields keep their current value.
type SettingsUpdate struct {
	LettersPerReward  *int
	RewardSeconds     *int
	Video             *string
	RewardOrientation *string
	NewPIN            *string
	RewardEnabled     *bool
}

// UpdateSettings validates and applies u. A malformed video reference or PIN
// returns an error and leaves s untouched. When a video is submitted the
// playback bookmark survives only if it points at that video; watched
// sessions are reconciled against the new threshold.
func UpdateSettings(s State, u SettingsUpdate) (State, error) {
	next := s.Settings

	if u.LettersPerReward != nil {
		next.LettersPerReward = clamp(orDefault(*u.LettersPerReward, formLettersPerReward), MinLettersPerReward, MaxLettersPerReward)
	}
	if u.RewardSeconds != nil {
		next.RewardSeconds = clamp(orDefault(*u.RewardSeconds, formRewardSeconds), MinRewardSeconds, MaxRewardSeconds)
	}
	if u.Video != nil {
		id := video.ParseID(*u.Video)
		if id == "" {
			return s, fmt.Errorf("%w: %q", ErrInvalidVideo, strings.TrimSpace(*u.Video))
		}
		next.YouTubeVideoID = id
	}
	if u.RewardOrientation != nil {
		next.RewardOrientation = NormalizeOrientation(*u.RewardOrientation)
	}
	if u.NewPIN != nil {
		pin := strings.TrimSpace(*u.NewPIN)
		if pin != "" {
			if !ValidPIN(pin) {
				return s, ErrInvalidPIN
			}
			next.ParentPIN = pin
		}
	}
	if u.RewardEnabled != nil {
		next.RewardEnabled = *u.RewardEnabled
	}

	prev := s.RewardPlayback
	s.Settings = next
	switch {
	case u.Video == nil:
	case prev.VideoID == next.YouTubeVideoID:
		s.RewardPlayback = video.NormalizePosition(prev, next.YouTubeVideoID)
	default:
		s.RewardPlayback = video.Position{VideoID: next.YouTubeVideoID}
	}
	return Reconcile(s), nil
}

// PINPurpose distinguishes the two places the parent PIN is asked for.
type PINPurpose string

const (
	PurposeParent       PINPurpose = "parent"
	PurposeRewardUnlock PINPurpose = "reward_unlock"
)

// VerifyPIN compares input (trimmed) with the configured PIN verbatim.
func VerifyPIN(s Settings, input string) error {
	if strings.TrimSpace(input) != s.ParentPIN {
		return ErrWrongPIN
	}
	return nil
}
