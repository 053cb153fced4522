package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"edupocket/internal/client/models"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer repos.DB.Close()

	if err := repos.DB.PingContext(ctx); err != nil {
		t.Fatalf("db.PingContext failed: %v", err)
	}

	for _, table := range []string{"goose_db_version", "snapshots", "classes", "students", "parents", "wallposts", "activities"} {
		if !tableExists(t, repos.DB, table) {
			t.Fatalf("expected table %q to exist after migrations", table)
		}
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (first) error: %v", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (second) should be idempotent, got error: %v", err)
	}

	if !tableExists(t, db, "goose_db_version") {
		t.Fatalf("expected goose_db_version table to exist after repeated migrations")
	}
}

func TestInitDatabase_RepositoriesUsable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	defer repos.DB.Close()

	c := models.Class{Id: "c1", SchoolId: "s1", TermId: "t1", Name: "Math"}
	if err := repos.Classes.UpsertMany(ctx, []models.Class{c}, true); err != nil {
		t.Fatalf("UpsertMany failed: %v", err)
	}

	got, err := repos.Classes.GetByID(ctx, "c1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil || got.Name != "Math" {
		t.Fatalf("unexpected record: %+v", got)
	}
}
