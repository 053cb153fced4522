// Package classes persists class records in the local cache database. Each
// row keeps a few indexed filter columns next to the full serialized record,
// so un-indexed fields survive even though they are not queryable in SQL.
package classes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

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

func (r *SQLiteRepository) UpsertMany(ctx context.Context, items []models.Class, synced bool) error {
	query := `INSERT INTO classes (id, school_id, term_id, teacher_id, grade, name, serialized, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET school_id = excluded.school_id,
				term_id = excluded.term_id,
				teacher_id = excluded.teacher_id,
				grade = excluded.grade,
				name = excluded.name,
				serialized = excluded.serialized,
				synced = excluded.synced
	`

	var errs []error
	for _, c := range items {
		serialized, err := json.Marshal(c)
		if err != nil {
			errs = append(errs, fmt.Errorf("class %s: %w", c.Id, err))
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			c.Id, c.SchoolId, c.TermId, c.TeacherId, c.Grade, c.Name, string(serialized), boolToInt(synced)); err != nil {
			errs = append(errs, fmt.Errorf("class %s: %w", c.Id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.ClassFilter) ([]models.Class, error) {
	var flt dbx.Filter
	flt.Eq("school_id", f.SchoolId).
		Eq("term_id", f.TermId).
		Eq("teacher_id", f.TeacherId).
		Eq("grade", f.Grade)
	where, args := flt.Where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_id, term_id, teacher_id, grade, name, serialized FROM classes`+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select classes: %w", err)
	}
	defer rows.Close()

	var result []models.Class
	for rows.Next() {
		var id, schoolID, termID, teacherID, grade, name, serialized string
		if err := rows.Scan(&id, &schoolID, &termID, &teacherID, &grade, &name, &serialized); err != nil {
			return nil, err
		}

		if f.Search != "" && !strings.Contains(strings.ToLower(serialized), strings.ToLower(f.Search)) {
			continue
		}

		var c models.Class
		if err := json.Unmarshal([]byte(serialized), &c); err != nil {
			// Corrupt blob: reconstruct what the indexed columns still know.
			c = models.Class{Id: id, SchoolId: schoolID, TermId: termID, TeacherId: teacherID, Grade: grade, Name: name}
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, school_id, term_id, teacher_id, grade, name, serialized FROM classes WHERE id = ?`, id)

	var rowID, schoolID, termID, teacherID, grade, name, serialized string
	err := row.Scan(&rowID, &schoolID, &termID, &teacherID, &grade, &name, &serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class %s: %w", id, err)
	}

	c := &models.Class{}
	if err := json.Unmarshal([]byte(serialized), c); err != nil {
		c = &models.Class{Id: rowID, SchoolId: schoolID, TermId: termID, TeacherId: teacherID, Grade: grade, Name: name}
	}
	return c, nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Class, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_id, term_id, teacher_id, grade, name, serialized FROM classes WHERE synced = 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced classes: %w", err)
	}
	defer rows.Close()

	var result []models.Class
	for rows.Next() {
		var id, schoolID, termID, teacherID, grade, name, serialized string
		if err := rows.Scan(&id, &schoolID, &termID, &teacherID, &grade, &name, &serialized); err != nil {
			return nil, err
		}
		var c models.Class
		if err := json.Unmarshal([]byte(serialized), &c); err != nil {
			c = models.Class{Id: id, SchoolId: schoolID, TermId: termID, TeacherId: teacherID, Grade: grade, Name: name}
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE classes SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark class %s synced: %w", id, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
