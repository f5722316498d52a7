// Package postgres owns the database handle for the link store: it opens
// the sqlx pool over the pgx stdlib driver and brings the schema up to
// date at startup. Pool sizing defaults live in the config layer.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolLimits bounds the connection pool. A zero value keeps the
// corresponding database/sql default.
type PoolLimits struct {
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	MaxIdleConns    int
	MaxOpenConns    int
}

func (l PoolLimits) apply(db *sqlx.DB) {
	db.SetConnMaxIdleTime(l.ConnMaxIdleTime)
	db.SetConnMaxLifetime(l.ConnMaxLifetime)
	db.SetMaxIdleConns(l.MaxIdleConns)
	db.SetMaxOpenConns(l.MaxOpenConns)
}

// Connect opens and pings a pool for the given DSN and applies the limits.
func Connect(ctx context.Context, dsn string, limits PoolLimits) (*sqlx.DB, error) {
	const op = "postgres.Connect"

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection pool: %w", op, err)
	}

	limits.apply(db)

	return db, nil
}

// Migrate applies all pending schema migrations from sourceURL against the
// database behind dsn. An already up-to-date schema is not an error.
func Migrate(sourceURL, dsn string) error {
	const op = "postgres.Migrate"

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare migrations: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to apply migrations: %w", op, err)
	}

	return nil
}
