package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/abcadventure/internal/store"
)

// SessionSummary folds the events of one reward session.
type SessionSummary struct {
	SessionID string
	Started   time.Time
	Finished  time.Time
	// Outcome is the closing action (end or abort), or "" while the
	// session has no closing event.
	Outcome  string
	Reason   string
	Resumed  bool
	Consumed bool
	Skips    int
	// Videos lists the candidates that were loaded, in order.
	Videos []string
}

// Duration is the time between the first and last event.
func (s SessionSummary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Sessions groups recent reward events by session, newest session first.
// limit caps the number of sessions (0 = all).
func (s *Service) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	events, err := s.Events(ctx, store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load reward history: %w", err)
	}
	return Summarize(events, limit), nil
}

// Summarize folds events (newest first, as the store returns them) into
// per-session summaries, newest session first.
func Summarize(events []store.RewardEventRecord, limit int) []SessionSummary {
	index := make(map[string]int)
	var out []SessionSummary

	// Walk oldest first so fields fill in event order.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		pos, ok := index[e.SessionID]
		if !ok {
			pos = len(out)
			index[e.SessionID] = pos
			out = append(out, SessionSummary{SessionID: e.SessionID, Started: e.Timestamp})
		}
		sum := &out[pos]
		sum.Finished = e.Timestamp

		if e.VideoID != "" && (len(sum.Videos) == 0 || sum.Videos[len(sum.Videos)-1] != e.VideoID) {
			sum.Videos = append(sum.Videos, e.VideoID)
		}

		switch e.Action {
		case store.ActionResume:
			sum.Resumed = true
		case store.ActionConsume:
			sum.Consumed = true
		case store.ActionSkip:
			sum.Skips++
		case store.ActionEnd, store.ActionAbort:
			sum.Outcome = e.Action
			sum.Reason = e.Reason
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
