// Package wallposts persists wall post records in the local cache database.
package wallposts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"edupocket/internal/client/models"
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

func (r *SQLiteRepository) UpsertMany(ctx context.Context, items []models.WallPost, synced bool) error {
	query := `INSERT INTO wallposts (id, school_id, class_id, author_id, created_at, serialized, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET school_id = excluded.school_id,
				class_id = excluded.class_id,
				author_id = excluded.author_id,
				created_at = excluded.created_at,
				serialized = excluded.serialized,
				synced = excluded.synced
	`

	syncedInt := 0
	if synced {
		syncedInt = 1
	}

	var errs []error
	for _, p := range items {
		serialized, err := json.Marshal(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			p.Id, p.SchoolId, p.ClassId, p.AuthorId, p.CreatedAt.UTC().Format(time.RFC3339), string(serialized), syncedInt); err != nil {
			errs = append(errs, fmt.Errorf("wall post %s: %w", p.Id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.WallPostFilter) ([]models.WallPost, error) {
	var flt dbx.Filter
	flt.Eq("school_id", f.SchoolId).Eq("class_id", f.ClassId).Eq("author_id", f.AuthorId)
	where, args := flt.Where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_id, class_id, author_id, created_at, serialized FROM wallposts`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select wall posts: %w", err)
	}
	defer rows.Close()

	var result []models.WallPost
	for rows.Next() {
		var id, schoolID, classID, authorID, createdAt, serialized string
		if err := rows.Scan(&id, &schoolID, &classID, &authorID, &createdAt, &serialized); err != nil {
			return nil, err
		}

		if f.Search != "" && !strings.Contains(strings.ToLower(serialized), strings.ToLower(f.Search)) {
			continue
		}

		var p models.WallPost
		if err := json.Unmarshal([]byte(serialized), &p); err != nil {
			p = models.WallPost{Id: id, SchoolId: schoolID, ClassId: classID, AuthorId: authorID}
			if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
				p.CreatedAt = t
			}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.WallPost, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, school_id, class_id, author_id, created_at, serialized FROM wallposts WHERE id = ?`, id)

	var rowID, schoolID, classID, authorID, createdAt, serialized string
	err := row.Scan(&rowID, &schoolID, &classID, &authorID, &createdAt, &serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wall post %s: %w", id, err)
	}

	p := &models.WallPost{}
	if err := json.Unmarshal([]byte(serialized), p); err != nil {
		p = &models.WallPost{Id: rowID, SchoolId: schoolID, ClassId: classID, AuthorId: authorID}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			p.CreatedAt = t
		}
	}
	return p, nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.WallPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_id, class_id, author_id, created_at, serialized FROM wallposts WHERE synced = 0 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced wall posts: %w", err)
	}
	defer rows.Close()

	var result []models.WallPost
	for rows.Next() {
		var id, schoolID, classID, authorID, createdAt, serialized string
		if err := rows.Scan(&id, &schoolID, &classID, &authorID, &createdAt, &serialized); err != nil {
			return nil, err
		}
		var p models.WallPost
		if err := json.Unmarshal([]byte(serialized), &p); err != nil {
			p = models.WallPost{Id: id, SchoolId: schoolID, ClassId: classID, AuthorId: authorID}
			if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
				p.CreatedAt = t
			}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE wallposts SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark wall post %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wallposts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wall post %s: %w", id, err)
	}
	return nil
}
