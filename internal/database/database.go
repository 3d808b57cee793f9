// Package database opens the SQL pool that stores encrypted customer rows and carries
// transactions through the context.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// Drivers lists the database/sql drivers the customers repositories are written for.
var Drivers = []string{"postgres", "mysql"}

// Config sizes the connection pool.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens the pool described by cfg and pings it once. An unsupported driver is
// ErrConfiguration.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if !slices.Contains(Drivers, cfg.Driver) {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}
