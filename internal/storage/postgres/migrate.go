package postgres

import (
	"errors"
	"fmt"

	"github.com/14kear/livepoll/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies the embedded migrations up to the latest version.
func Migrate(postgresURL string) error {
	const op = "storage.postgres.Migrate"

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("%s: source: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, postgresURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
