package snapshots

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE snapshots (
  key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  marker TEXT NOT NULL DEFAULT '',
  saved_at TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSaveAndLoad(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, r.Save(ctx, "dashboard:u1", Entry{Payload: []byte(`{"a":1}`), SavedAt: now}))

	e, err := r.Load(ctx, "dashboard:u1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, []byte(`{"a":1}`), e.Payload)
	assert.Equal(t, "", e.Marker)
	assert.True(t, e.SavedAt.Equal(now))
}

func TestSave_OverwritesWholesale(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", Entry{Payload: []byte(`{"v":1}`), Marker: "m1", SavedAt: time.Now()}))
	require.NoError(t, r.Save(ctx, "k", Entry{Payload: []byte(`{"v":2}`), Marker: "m2", SavedAt: time.Now()}))

	e, err := r.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), e.Payload)
	assert.Equal(t, "m2", e.Marker)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE key='k'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoad_AbsentKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	e, err := r.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", Entry{Payload: []byte(`1`), SavedAt: time.Now()}))
	require.NoError(t, r.Clear(ctx, "k"))
	require.NoError(t, r.Clear(ctx, "k")) // idempotent

	e, err := r.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, e)
}
