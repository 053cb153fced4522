package classes

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
CREATE TABLE classes (
  id TEXT PRIMARY KEY,
  school_id TEXT NOT NULL DEFAULT '',
  term_id TEXT NOT NULL DEFAULT '',
  teacher_id TEXT NOT NULL DEFAULT '',
  grade TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  serialized TEXT NOT NULL,
  synced INTEGER NOT NULL DEFAULT 1
);
`)
	require.NoError(t, err)

	return db
}

func TestUpsertMany_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := models.Class{Id: "c1", SchoolId: "s1", TermId: "t1", Name: "Math 5A", Room: "12"}
	require.NoError(t, r.UpsertMany(ctx, []models.Class{c}, true))
	require.NoError(t, r.UpsertMany(ctx, []models.Class{c}, true))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM classes WHERE id='c1'`).Scan(&count))
	assert.Equal(t, 1, count)

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12", got.Room) // un-indexed field retained via serialized blob
}

func TestUpsertMany_LaterWriteWins(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.UpsertMany(ctx, []models.Class{{Id: "c1", SchoolId: "s1", Name: "old"}}, false))
	require.NoError(t, r.UpsertMany(ctx, []models.Class{{Id: "c1", SchoolId: "s1", Name: "new"}}, true))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)

	var synced int
	require.NoError(t, db.QueryRow(`SELECT synced FROM classes WHERE id='c1'`).Scan(&synced))
	assert.Equal(t, 1, synced)
}

func TestQuery_TwoPhaseFiltering(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	seed := []models.Class{
		{Id: "c1", SchoolId: "s1", TermId: "t1", Name: "Mathematics", Grade: "5"},
		{Id: "c2", SchoolId: "s1", TermId: "t1", Name: "History", Grade: "5"},
		{Id: "c3", SchoolId: "s1", TermId: "t2", Name: "Mathematics", Grade: "6"},
		{Id: "c4", SchoolId: "s2", TermId: "t1", Name: "Mathematics", Grade: "5"},
	}
	require.NoError(t, r.UpsertMany(ctx, seed, true))

	// Coarse SQL filter on indexed columns.
	got, err := r.Query(ctx, models.ClassFilter{SchoolId: "s1", TermId: "t1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Fine in-memory search on top of the SQL filter.
	got, err = r.Query(ctx, models.ClassFilter{SchoolId: "s1", Search: "math"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "Mathematics", c.Name)
	}
}

func TestQuery_CorruptRowFallsBackToIndexedColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO classes (id, school_id, term_id, name, serialized)
		VALUES ('bad', 's1', 't1', 'Art', '{broken')`)
	require.NoError(t, err)

	got, err := r.Query(ctx, models.ClassFilter{SchoolId: "s1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bad", got[0].Id)
	assert.Equal(t, "Art", got[0].Name)
}

func TestGetByID_CorruptRowFallsBackToIndexedColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO classes (id, school_id, term_id, name, serialized)
		VALUES ('c1', 's1', 't1', 'Art', '{not json')`)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.Id)
	assert.Equal(t, "s1", got.SchoolId)
	assert.Equal(t, "Art", got.Name)
}

func TestUnsynced_CorruptRowFallsBackToIndexedColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO classes (id, school_id, name, serialized, synced)
		VALUES ('c1', 's1', 'Art', '{not json', 0)`)
	require.NoError(t, err)

	pending, err := r.Unsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].Id)
	assert.Equal(t, "Art", pending[0].Name)
}

func TestGetByID_Absent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnsyncedAndMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.UpsertMany(ctx, []models.Class{{Id: "c1", SchoolId: "s1"}}, false))
	require.NoError(t, r.UpsertMany(ctx, []models.Class{{Id: "c2", SchoolId: "s1"}}, true))

	pending, err := r.Unsynced(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].Id)

	require.NoError(t, r.MarkSynced(ctx, "c1"))

	pending, err = r.Unsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
