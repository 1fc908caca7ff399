package reward

// ComputeStatus derives unlock counts. The stored watched count is clamped
// to what is currently earned, so a stale value left behind by a threshold
// change never hides or invents sessions.
func ComputeStatus(p Progress, s Settings) Status {
	learned := len(p.LearnedLetters)
	per := s.LettersPerReward
	if per < MinLettersPerReward {
		per = MinLettersPerReward
	}

	earned := learned / per
	watched := p.WatchedSessions
	if watched < 0 {
		watched = 0
	}
	if watched > earned {
		watched = earned
	}

	return Status{
		LearnedCount:         learned,
		LettersPerReward:     per,
		EarnedSessions:       earned,
		WatchedSessions:      watched,
		AvailableSessions:    max(0, earned-watched),
		ProgressToNextReward: learned % per,
		NextMilestoneAt:      (earned + 1) * per,
	}
}

// Status is shorthand for ComputeStatus(s.Progress, s.Settings).
func (s State) Status() Status {
	return ComputeStatus(s.Progress, s.Settings)
}
