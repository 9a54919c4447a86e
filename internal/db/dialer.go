// Package db adapts PostgreSQL connection establishment to the redial
// wrapper: a pgx pool dialer, a transient-error classifier, and actionable
// explanations for final connection failures.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/redial/pkg/redial"
)

// Connection pool configuration constants.
const (
	// DefaultMaxConns limits concurrent connections to prevent resource
	// exhaustion on the server.
	DefaultMaxConns = 5

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps pooled connections alive to avoid
	// reconnection overhead.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Driver is the target class pool dialers register retry policy under.
const Driver = "postgres"

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// PoolDialer returns a redial.Dialer that opens a pgx connection pool for
// the target's DSN and verifies it with a ping. The returned dialer makes
// a single attempt; retry behavior comes from wrapping it with redial.Wrap.
func PoolDialer() redial.Dialer[*pgxpool.Pool] {
	return func(ctx context.Context, target redial.Target) (*pgxpool.Pool, error) {
		poolConfig, err := pgxpool.ParseConfig(target.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse connection string: %w", err)
		}

		configurePool(poolConfig)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		return pool, nil
	}
}
