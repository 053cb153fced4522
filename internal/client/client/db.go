// Package client bootstraps the local persistence of the EduPocket client:
// it opens the SQLite database, applies the embedded goose migrations and
// constructs the repository set everything else is wired from.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"edupocket/internal/client/migrations"
	"edupocket/internal/client/repositories/activities"
	"edupocket/internal/client/repositories/classes"
	"edupocket/internal/client/repositories/parents"
	"edupocket/internal/client/repositories/snapshots"
	"edupocket/internal/client/repositories/students"
	"edupocket/internal/client/repositories/wallposts"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories is the full set of local stores, all sharing one database.
type Repositories struct {
	DB *sql.DB

	Snapshots  snapshots.Repository
	Classes    classes.Repository
	Students   students.Repository
	Parents    parents.Repository
	WallPosts  wallposts.Repository
	Activities activities.Repository
}

// RunMigrations applies the embedded migrations. Goose records applied
// versions in its own table, so calling this on every startup is safe and is
// how schema upgrades reach existing installs.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at dsn, brings
// the schema up to date and returns the repository set. The caller owns
// Repositories.DB and closes it on shutdown.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		DB:         db,
		Snapshots:  snapshots.NewSQLiteRepository(db),
		Classes:    classes.NewSQLiteRepository(db),
		Students:   students.NewSQLiteRepository(db),
		Parents:    parents.NewSQLiteRepository(db),
		WallPosts:  wallposts.NewSQLiteRepository(db),
		Activities: activities.NewSQLiteRepository(db),
	}
	return repos, nil
}
