package reward

import (
	"regexp"
	"slices"
	"strings"

	"github.com/abhisek/abcadventure/internal/video"
)

var letterPattern = regexp.MustCompile(`^[A-Z]$`)

// NormalizeLetter trims and uppercases raw, returning "" unless the result
// is a single A-Z character.
func NormalizeLetter(raw string) string {
	l := strings.ToUpper(strings.TrimSpace(raw))
	if !letterPattern.MatchString(l) {
		return ""
	}
	return l
}

// IsLearned reports whether letter is already in the learned set.
func (s State) IsLearned(letter string) bool {
	return slices.Contains(s.LearnedLetters, NormalizeLetter(letter))
}

// MarkLetterLearned records letter. A known letter only updates
// LastLearnedLetter; a new one is appended and earns points and streak.
// Invalid input leaves the state unchanged.
func MarkLetterLearned(s State, raw string) State {
	letter := NormalizeLetter(raw)
	if letter == "" {
		return s
	}

	if slices.Contains(s.LearnedLetters, letter) {
		s.LastLearnedLetter = letter
		return s
	}

	s.LearnedLetters = append(slices.Clone(s.LearnedLetters), letter)
	s.LastLearnedLetter = letter
	s.Score += LearnPoints
	s.Streak++
	return s
}

// AnswerQuiz applies a quiz answer. A correct answer learns the target (if
// new) and adds a bonus; a wrong one breaks the streak.
func AnswerQuiz(s State, target, chosen string) (State, bool) {
	t := NormalizeLetter(target)
	if t == "" {
		return s, false
	}
	if NormalizeLetter(chosen) != t {
		s.Streak = 0
		return s, false
	}
	s = MarkLetterLearned(s, t)
	s.Score += QuizPoints
	return s, true
}

// ConsumeRewardSession spends one available session. With nothing
// available it is a no-op. The streak counts learns since the last reward,
// so it resets here.
func ConsumeRewardSession(s State) State {
	status := s.Status()
	if status.AvailableSessions <= 0 {
		return s
	}
	s.WatchedSessions = status.WatchedSessions + 1
	s.Streak = 0
	return s
}

// Reconcile rewrites WatchedSessions to the clamped value ComputeStatus uses.
// Call after any change to LettersPerReward.
func Reconcile(s State) State {
	watched := s.Status().WatchedSessions
	if watched == s.WatchedSessions {
		return s
	}
	s.WatchedSessions = watched
	return s
}

// ResetOptions controls ResetProgress.
type ResetOptions struct {
	// ResetRewardPlayback also rewinds the video bookmark to the start of
	// the primary video. When false the bookmark survives the wipe.
	ResetRewardPlayback bool
}

// ResetProgress clears learning progress and any in-flight reward snapshot.
func ResetProgress(s State, opts ResetOptions) State {
	s.Progress = Progress{LearnedLetters: []string{}}
	s.ActiveReward = ActiveReward{}
	if opts.ResetRewardPlayback {
		s.RewardPlayback = video.Position{VideoID: s.Settings.YouTubeVideoID}
	}
	return s
}

// WithPlayback stores a resume point, normalized against the primary video.
func WithPlayback(s State, pos video.Position) State {
	s.RewardPlayback = video.NormalizePosition(pos, s.Settings.YouTubeVideoID)
	return s
}

// WithActiveReward stores the in-flight snapshot.
func WithActiveReward(s State, a ActiveReward) State {
	s.ActiveReward = a.Normalize()
	return s
}
