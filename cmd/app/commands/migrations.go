package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationDirs maps database drivers to their migration directory under migrations/.
var migrationDirs = map[string]string{
	"postgres": "postgresql",
	"mysql":    "mysql",
}

// migrationTarget returns the migration source and the database URL golang-migrate expects
// for driver. MySQL DSNs in go-sql-driver form get the mysql:// scheme prepended.
func migrationTarget(driver, connectionString string) (source, databaseURL string, err error) {
	dir, ok := migrationDirs[driver]
	if !ok {
		return "", "", fmt.Errorf("unsupported database driver: %s", driver)
	}

	databaseURL = connectionString
	if driver == "mysql" && !strings.HasPrefix(connectionString, "mysql://") {
		databaseURL = "mysql://" + connectionString
	}
	return "file://migrations/" + dir, databaseURL, nil
}

// RunMigrations applies the pending customers table migrations for driver. It must run from
// the repository root so that migrations/ resolves; no pending migration is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	source, databaseURL, err := migrationTarget(driver, connectionString)
	if err != nil {
		return err
	}
	logger.Info("running database migrations", slog.String("driver", driver), slog.String("source", source))

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}
