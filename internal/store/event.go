package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableRewardEvents).
		Columns("timestamp", "session_id", "action", "video_id", "reason", "remaining_seconds").
		Values(time.Now(), data.SessionID, data.Action, nullable(data.VideoID), nullable(data.Reason), data.RemainingSeconds).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save reward event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	t := entsql.Table(tableRewardEvents)
	sel := entsql.Dialect(dialect.SQLite).
		Select(t.C("id"), t.C("timestamp"), t.C("session_id"), t.C("action"), t.C("video_id"), t.C("reason"), t.C("remaining_seconds")).
		From(t).
		OrderBy(entsql.Desc(t.C("id")))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("id"), opts.After))
	}
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ(t.C("session_id"), opts.SessionID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var records []RewardEventRecord
	for rows.Next() {
		var (
			rec     RewardEventRecord
			videoID sql.NullString
			reason  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.SessionID, &rec.Action, &videoID, &reason, &rec.RemainingSeconds); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		rec.VideoID = videoID.String
		rec.Reason = reason.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reward events: %w", err)
	}
	return records, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
