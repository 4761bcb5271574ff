// Package database opens the Postgres connection pool and applies the embedded
// goose migrations.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/cityinfo/migrations"
)

// Connect creates a pgxpool and verifies the database is reachable.
// pgxpool.New does not open connections immediately; the ping does.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database.Connect: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database.Connect: ping: %w", err)
	}

	return pool, nil
}

// Migrate applies every pending migration from migrations.FS.
// goose needs a *sql.DB, so one is opened on top of the existing pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("database.Migrate: create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("database.Migrate: up: %w", err)
	}

	for _, res := range results {
		log.Info("migration applied",
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	return nil
}
