// Package activities persists attendance and activity records in the local
// cache database.
package activities

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

func (r *SQLiteRepository) UpsertMany(ctx context.Context, items []models.Activity, synced bool) error {
	query := `INSERT INTO activities (id, class_id, term_id, student_id, kind, status, activity_date, serialized, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET class_id = excluded.class_id,
				term_id = excluded.term_id,
				student_id = excluded.student_id,
				kind = excluded.kind,
				status = excluded.status,
				activity_date = excluded.activity_date,
				serialized = excluded.serialized,
				synced = excluded.synced
	`

	syncedInt := 0
	if synced {
		syncedInt = 1
	}

	var errs []error
	for _, a := range items {
		serialized, err := json.Marshal(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			a.Id, a.ClassId, a.TermId, a.StudentId, a.Kind, a.Status, a.Date, string(serialized), syncedInt); err != nil {
			errs = append(errs, fmt.Errorf("activity %s: %w", a.Id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	var flt dbx.Filter
	flt.Eq("class_id", f.ClassId).
		Eq("term_id", f.TermId).
		Eq("student_id", f.StudentId).
		Eq("activity_date", f.Date)
	where, args := flt.Where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, term_id, student_id, kind, status, activity_date, serialized FROM activities`+where+` ORDER BY activity_date DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select activities: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var id, classID, termID, studentID, kind, status, date, serialized string
		if err := rows.Scan(&id, &classID, &termID, &studentID, &kind, &status, &date, &serialized); err != nil {
			return nil, err
		}

		if f.Search != "" && !strings.Contains(strings.ToLower(serialized), strings.ToLower(f.Search)) {
			continue
		}

		var a models.Activity
		if err := json.Unmarshal([]byte(serialized), &a); err != nil {
			a = models.Activity{Id: id, ClassId: classID, TermId: termID, StudentId: studentID, Kind: kind, Status: status, Date: date}
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, class_id, term_id, student_id, kind, status, activity_date, serialized FROM activities WHERE id = ?`, id)

	var rowID, classID, termID, studentID, kind, status, date, serialized string
	err := row.Scan(&rowID, &classID, &termID, &studentID, &kind, &status, &date, &serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity %s: %w", id, err)
	}

	a := &models.Activity{}
	if err := json.Unmarshal([]byte(serialized), a); err != nil {
		a = &models.Activity{Id: rowID, ClassId: classID, TermId: termID, StudentId: studentID, Kind: kind, Status: status, Date: date}
	}
	return a, nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, term_id, student_id, kind, status, activity_date, serialized FROM activities WHERE synced = 0 ORDER BY activity_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced activities: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var id, classID, termID, studentID, kind, status, date, serialized string
		if err := rows.Scan(&id, &classID, &termID, &studentID, &kind, &status, &date, &serialized); err != nil {
			return nil, err
		}
		var a models.Activity
		if err := json.Unmarshal([]byte(serialized), &a); err != nil {
			a = models.Activity{Id: id, ClassId: classID, TermId: termID, StudentId: studentID, Kind: kind, Status: status, Date: date}
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE activities SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark activity %s synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity %s: %w", id, err)
	}
	return nil
}
