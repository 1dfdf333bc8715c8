package postgres

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // migrate file source

	"costwatch/internal/adapters/config"
	"costwatch/pkg/errors"
)

// RunMigrations applies all pending schema migrations from the configured
// directory. A database already at the latest version is not an error.
func RunMigrations(cfg config.PostgresConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.MigrateURL())
	if err != nil {
		return errors.Wrap(err, "failed to open migrations")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}
