package store

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies all pending up-migrations for the backend selected by dsn.
// It uses its own connection, so run it before Open.
func Migrate(dsn string) error {
	dir, url := "migrations/sqlite", ""
	if isPostgres(dsn) {
		dir = "migrations/postgres"
		url = "pgx5://" + dsn[strings.Index(dsn, "://")+3:]
	} else {
		path := sqlitePath(dsn)
		if err := ensureDir(path); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		url = "sqlite://" + path
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("cannot create migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cannot migrate up: %w", err)
	}
	return nil
}
