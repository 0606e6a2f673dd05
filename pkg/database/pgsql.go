// Package database opens the PostgreSQL pools used by the API.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool opens a pool for one database credential. role only labels log lines, so the
// user and service pools can be told apart. When ping is true the connection is verified
// before returning.
func NewPgxPool(ctx context.Context, role, databaseURL string, ping bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL for %s credential cannot be empty", role)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s database config: %w", role, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s connection pool: %w", role, err)
	}

	if ping {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database as %s: %w", role, err)
		}
		slog.Info("Connected to PostgreSQL",
			slog.String("role", role),
			slog.String("host", config.ConnConfig.Host),
			slog.String("database", config.ConnConfig.Database),
			slog.String("user", config.ConnConfig.User),
			slog.Int("max_conns", int(config.MaxConns)))
	}

	return pool, nil
}

// ClosePgxPool closes pool if it was opened.
func ClosePgxPool(role string, pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("PostgreSQL connection pool closed", slog.String("role", role))
}
