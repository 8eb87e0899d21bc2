// Package testdb provides the shared Postgres fixture for integration tests.
// Tests that need a database call New and are skipped unless
// RAILGO_TEST_DATABASE_DSN points at a disposable instance.
package testdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/railgo/internal/postgres"
)

const envDSN = "RAILGO_TEST_DATABASE_DSN"

// New connects to the test database, applies the schema and truncates all
// tables so every test starts from an empty inventory. The pool is closed
// via t.Cleanup.
func New(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skipf("%s not set, skipping database test", envDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.New(ctx, postgres.Config{DSN: dsn})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`TRUNCATE tickets, orders, seats, journey_crew, journeys,
		          crews, routes, trains, train_types, stations
		 RESTART IDENTITY CASCADE`,
	); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return pool
}
