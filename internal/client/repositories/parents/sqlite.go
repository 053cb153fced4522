// Package parents persists guardian records in the local cache database.
package parents

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

func (r *SQLiteRepository) UpsertMany(ctx context.Context, items []models.Parent, synced bool) error {
	query := `INSERT INTO parents (id, student_id, school_id, name, phone, serialized, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET student_id = excluded.student_id,
				school_id = excluded.school_id,
				name = excluded.name,
				phone = excluded.phone,
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
			errs = append(errs, fmt.Errorf("parent %s: %w", p.Id, err))
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			p.Id, p.StudentId, p.SchoolId, p.Name, p.Phone, string(serialized), syncedInt); err != nil {
			errs = append(errs, fmt.Errorf("parent %s: %w", p.Id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.ParentFilter) ([]models.Parent, error) {
	var flt dbx.Filter
	flt.Eq("student_id", f.StudentId).Eq("school_id", f.SchoolId)
	where, args := flt.Where()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, school_id, name, phone, serialized FROM parents`+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select parents: %w", err)
	}
	defer rows.Close()

	var result []models.Parent
	for rows.Next() {
		var id, studentID, schoolID, name, phone, serialized string
		if err := rows.Scan(&id, &studentID, &schoolID, &name, &phone, &serialized); err != nil {
			return nil, err
		}

		if f.Search != "" && !strings.Contains(strings.ToLower(serialized), strings.ToLower(f.Search)) {
			continue
		}

		var p models.Parent
		if err := json.Unmarshal([]byte(serialized), &p); err != nil {
			p = models.Parent{Id: id, StudentId: studentID, SchoolId: schoolID, Name: name, Phone: phone}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Parent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, student_id, school_id, name, phone, serialized FROM parents WHERE id = ?`, id)

	var rowID, studentID, schoolID, name, phone, serialized string
	err := row.Scan(&rowID, &studentID, &schoolID, &name, &phone, &serialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parent %s: %w", id, err)
	}

	p := &models.Parent{}
	if err := json.Unmarshal([]byte(serialized), p); err != nil {
		p = &models.Parent{Id: rowID, StudentId: studentID, SchoolId: schoolID, Name: name, Phone: phone}
	}
	return p, nil
}

func (r *SQLiteRepository) Unsynced(ctx context.Context) ([]models.Parent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, school_id, name, phone, serialized FROM parents WHERE synced = 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to select unsynced parents: %w", err)
	}
	defer rows.Close()

	var result []models.Parent
	for rows.Next() {
		var id, studentID, schoolID, name, phone, serialized string
		if err := rows.Scan(&id, &studentID, &schoolID, &name, &phone, &serialized); err != nil {
			return nil, err
		}
		var p models.Parent
		if err := json.Unmarshal([]byte(serialized), &p); err != nil {
			p = models.Parent{Id: id, StudentId: studentID, SchoolId: schoolID, Name: name, Phone: phone}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE parents SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark parent %s synced: %w", id, err)
	}
	return nil
}
