package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// registers the "postgres" driver with database/sql
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var ErrMigrateFailed = fmt.Errorf("failed to apply migrations")

// Migrate applies any pending schema migrations to the database named
// in the given options.
func Migrate(opts *Options) error {
	opts.SetDefaults()

	db, err := sql.Open("postgres", opts.URL)
	if err != nil {
		return fmt.Errorf("%w %v", ErrMigrateFailed, err)
	}
	defer db.Close()

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w %v", ErrMigrateFailed, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w %v", ErrMigrateFailed, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w %v", ErrMigrateFailed, err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("%w %v", ErrMigrateFailed, err)
	}
	return nil
}
