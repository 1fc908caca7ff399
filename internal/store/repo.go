package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int       // id > After
	SessionID string    // only this session when set
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
}

// StateRecord is one stored state blob.
type StateRecord struct {
	Name      string
	Version   int
	Data      []byte
	UpdatedAt time.Time
}

// StateRepo persists the learner state under a single key.
type StateRepo interface {
	// Load returns the record for name, or nil if none exists.
	Load(ctx context.Context, name string) (*StateRecord, error)

	// Save inserts or replaces the record.
	Save(ctx context.Context, rec StateRecord) error
}

// Reward event actions.
const (
	ActionStart   = "start"
	ActionResume  = "resume"
	ActionConsume = "consume"
	ActionSkip    = "skip"
	ActionEnd     = "end"
	ActionAbort   = "abort"
)

// RewardEventData captures one reward session lifecycle event.
type RewardEventData struct {
	SessionID        string
	Action           string
	VideoID          string
	Reason           string
	RemainingSeconds int
}

// RewardEventRecord is a stored reward event.
type RewardEventRecord struct {
	RewardEventData
	ID        int
	Timestamp time.Time
}

// EventRepo provides append and query access to reward events.
type EventRepo interface {
	// AppendRewardEvent records a reward session event.
	AppendRewardEvent(ctx context.Context, data RewardEventData) error

	// QueryRewardEvents returns events newest first.
	QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error)
}
