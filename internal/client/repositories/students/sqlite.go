// Package students persists student records in the local cache database.
package students

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

func (r *SQLiteRepository) UpsertMany(ctx context.Context, items []models.Student, synced bool) error {
	query := `INSERT INTO students (id, class_id, school_id, name, serialized, synced)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET class_id = excluded.class_id,
				school_id = excluded.school_id,
				name = excluded.name,
				serialized = excluded.serialized,
				synced = excluded.synced
	`

	syncedInt := 0
	if synced {
		syncedInt = 1
	}

	var errs []error
	for _, s := range items {
		serialized, err := json.Marshal(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("student %s: %w", s.Id, err))
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			s.Id, s.ClassId, s.SchoolId, s.Name, string(serialized), syncedInt); err != nil {
			errs = append(errs, fmt.Errorf("student %s: %w", s.Id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	var flt dbx.Filter
	flt.Eq("class_id", f.ClassId).Eq("school_id", f.SchoolId)
	where, args := flt.Where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, school_id, name, serialized FROM students`+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select students: %w", err)
	}
	defer rows.Close()

	var result []models.Student
	for rows.Next() {
		var id, classID, schoolID, name, serialized string
		if err := rows.Scan(&id, &classID, &schoolID, &name, &serialized); err != nil {
			return nil, err
		}

		if f.Search != "" && !strings.Contains(strings.ToLower(serialized), strings.ToLower(f.Search)) {
			continue
		}

		var s models.Student
		if err := json.Unmarshal([]byte(serialized), &s); err != nil {
			s = models.Student{Id: id, ClassId: classID, SchoolId: schoolID, Name: name}
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, class_id, school_id, name, serialized FROM students WHERE id = ?`, id)

	var rowID, classID, schoolID, name, serialized string
	err := row.Scan(&rowID, &classID, &schoolID, &name, &serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student %s: %w", id, err)
	}

	s := &models.Student{}
	if err := json.Unmarshal([]byte(serialized), s); err != nil {
		s = &models.Student{Id: rowID, ClassId: classID, SchoolId: schoolID, Name: name}
	}
	return s, nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, school_id, name, serialized FROM students WHERE synced = 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced students: %w", err)
	}
	defer rows.Close()

	var result []models.Student
	for rows.Next() {
		var id, classID, schoolID, name, serialized string
		if err := rows.Scan(&id, &classID, &schoolID, &name, &serialized); err != nil {
			return nil, err
		}
		var s models.Student
		if err := json.Unmarshal([]byte(serialized), &s); err != nil {
			s = models.Student{Id: id, ClassId: classID, SchoolId: schoolID, Name: name}
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark student %s synced: %w", id, err)
	}
	return nil
}
