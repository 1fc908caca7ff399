// Package progress owns the learner's state for a running process. Every
// change goes through a pure transition in package reward and is persisted
// before it becomes visible.
package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/abcadventure/internal/logging"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/store"
	"github.com/abhisek/abcadventure/internal/video"
)

// Service applies reward transitions and persists the result. It is not
// safe for concurrent use; the TUI and CLI drive it from one goroutine.
type Service struct {
	states store.StateRepo
	events store.EventRepo
	logger *slog.Logger
	state  reward.State
}

// NewService creates a Service holding first-run defaults until Load runs.
func NewService(states store.StateRepo, events store.EventRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		states: states,
		events: events,
		logger: logger,
		state:  reward.NewState(reward.DefaultSettings()),
	}
}

// Load reads the stored state. A missing record keeps the defaults; a
// malformed one is decoded leniently.
func (s *Service) Load(ctx context.Context) error {
	rec, err := s.states.Load(ctx, store.StateKey)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if rec == nil {
		s.state = reward.NewState(reward.DefaultSettings())
		return nil
	}
	s.state = reward.Reconcile(reward.Decode(rec.Data))
	return nil
}

// State returns the current state.
func (s *Service) State() reward.State {
	return s.state
}

// Status returns the unlock view of the current state.
func (s *Service) Status() reward.Status {
	return s.state.Status()
}

// LearnLetter marks letter learned and returns the new status.
func (s *Service) LearnLetter(ctx context.Context, letter string) (reward.Status, error) {
	if err := s.commit(ctx, reward.MarkLetterLearned(s.state, letter)); err != nil {
		return s.Status(), err
	}
	return s.Status(), nil
}

// AnswerQuiz applies a quiz answer and reports whether it was correct.
func (s *Service) AnswerQuiz(ctx context.Context, target, chosen string) (bool, error) {
	next, correct := reward.AnswerQuiz(s.state, target, chosen)
	return correct, s.commit(ctx, next)
}

// Consume spends one available session. It reports false, without
// writing, when nothing was available.
func (s *Service) Consume(ctx context.Context) (bool, error) {
	next := reward.ConsumeRewardSession(s.state)
	if next.WatchedSessions == s.state.WatchedSessions {
		return false, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateSettings validates and applies a settings change.
func (s *Service) UpdateSettings(ctx context.Context, u reward.SettingsUpdate) error {
	next, err := reward.UpdateSettings(s.state, u)
	if err != nil {
		return err
	}
	return s.commit(ctx, next)
}

// ReplaceSettings swaps in a whole settings document after normalizing it.
func (s *Service) ReplaceSettings(ctx context.Context, settings reward.Settings) error {
	settings = reward.NormalizeSettings(settings)
	enabled := settings.RewardEnabled
	letters := settings.LettersPerReward
	secs := settings.RewardSeconds
	orientation := string(settings.RewardOrientation)
	return s.UpdateSettings(ctx, reward.SettingsUpdate{
		LettersPerReward:  &letters,
		RewardSeconds:     &secs,
		Video:             &settings.YouTubeVideoID,
		RewardOrientation: &orientation,
		NewPIN:            &settings.ParentPIN,
		RewardEnabled:     &enabled,
	})
}

// Reset wipes learning progress.
func (s *Service) Reset(ctx context.Context, opts reward.ResetOptions) error {
	return s.commit(ctx, reward.ResetProgress(s.state, opts))
}

// SaveSnapshot stores the playback bookmark and the in-flight reward
// snapshot in one write.
func (s *Service) SaveSnapshot(ctx context.Context, pos video.Position, active reward.ActiveReward) error {
	next := reward.WithPlayback(s.state, pos)
	next = reward.WithActiveReward(next, active)
	return s.commit(ctx, next)
}

// RecordEvent appends a reward event. Failures are logged, not returned:
// the audit log never blocks a reward.
func (s *Service) RecordEvent(ctx context.Context, data store.RewardEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendRewardEvent(ctx, data); err != nil {
		s.logger.Warn("record reward event failed",
			"action", data.Action,
			"session_id", data.SessionID,
			"error", err,
		)
	}
}

// Events lists recorded reward events, newest first.
func (s *Service) Events(ctx context.Context, opts store.QueryOpts) ([]store.RewardEventRecord, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.QueryRewardEvents(ctx, opts)
}

func (s *Service) commit(ctx context.Context, next reward.State) error {
	data, err := reward.Encode(next)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	err = s.states.Save(ctx, store.StateRecord{
		Name:    store.StateKey,
		Version: store.StateVersion,
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.state = next
	return nil
}
