package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// stateRepo implements StateRepo with the ent SQL builder.
type stateRepo struct {
	db *sql.DB
}

func (r *stateRepo) Load(ctx context.Context, name string) (*StateRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("name", "version", "data", "updated_at").
		From(entsql.Table(tableAppState)).
		Where(entsql.EQ("name", name)).
		Limit(1).
		Query()

	var rec StateRecord
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.Name, &rec.Version, &rec.Data, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load state %q: %w", name, err)
	}
	return &rec, nil
}

func (r *stateRepo) Save(ctx context.Context, rec StateRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	if rec.Version == 0 {
		rec.Version = StateVersion
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableAppState).
		Columns("name", "version", "data", "updated_at").
		Values(rec.Name, rec.Version, string(rec.Data), rec.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save state %q: %w", rec.Name, err)
	}
	return nil
}
