package students

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupocket/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE students (
  id TEXT PRIMARY KEY,
  class_id TEXT NOT NULL DEFAULT '',
  school_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  serialized TEXT NOT NULL,
  synced INTEGER NOT NULL DEFAULT 1
);
`)
	require.NoError(t, err)

	return db
}

func TestQuery_ByClassWithSearch(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seed := []models.Student{
		{Id: "st1", ClassId: "c1", SchoolId: "s1", Name: "Amina Yusuf", GuardianPhone: "0711"},
		{Id: "st2", ClassId: "c1", SchoolId: "s1", Name: "Brian Otieno"},
		{Id: "st3", ClassId: "c2", SchoolId: "s1", Name: "Amina Hassan"},
	}
	require.NoError(t, r.UpsertMany(ctx, seed, true))

	got, err := r.Query(ctx, models.StudentFilter{ClassId: "c1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.Query(ctx, models.StudentFilter{ClassId: "c1", Search: "amina"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "st1", got[0].Id)
	assert.Equal(t, "0711", got[0].GuardianPhone)
}

func TestGetByID_CorruptRowFallsBackToIndexedColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO students (id, class_id, school_id, name, serialized)
		VALUES ('st1', 'c1', 's1', 'Amina Yusuf', '{not json')`)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "st1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "st1", got.Id)
	assert.Equal(t, "c1", got.ClassId)
	assert.Equal(t, "Amina Yusuf", got.Name)
}

func TestUnsynced_CorruptRowFallsBackToIndexedColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO students (id, class_id, school_id, name, serialized, synced)
		VALUES ('st1', 'c1', 's1', 'Amina Yusuf', '{not json', 0)`)
	require.NoError(t, err)

	pending, err := r.Unsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "st1", pending[0].Id)
	assert.Equal(t, "Amina Yusuf", pending[0].Name)
}

func TestUpsertMany_ReplacesById(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.UpsertMany(ctx, []models.Student{{Id: "st1", ClassId: "c1", Name: "Old"}}, true))
	require.NoError(t, r.UpsertMany(ctx, []models.Student{{Id: "st1", ClassId: "c1", Name: "New"}}, true))

	got, err := r.GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}
