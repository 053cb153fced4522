// Package snapshots persists whole-payload cache entries (dashboard,
// schedule, survey trees, freshness markers) in a single key/value table.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edupocket/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, key string, e Entry) error {
	query := `INSERT INTO snapshots (key, payload, marker, saved_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET payload = excluded.payload,
				marker = excluded.marker,
				saved_at = excluded.saved_at
	`
	_, err := r.db.ExecContext(ctx, query, key, string(e.Payload), e.Marker, e.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save snapshot[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, key string) (*Entry, error) {
	query := `SELECT payload, marker, saved_at FROM snapshots WHERE key = ?`
	row := r.db.QueryRowContext(ctx, query, key)

	var payload, marker, savedAt string
	err := row.Scan(&payload, &marker, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot[%s]: %w", key, err)
	}

	e := &Entry{Payload: []byte(payload), Marker: marker}
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		e.SavedAt = t
	}
	return e, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to clear snapshot[%s]: %w", key, err)
	}
	return nil
}
