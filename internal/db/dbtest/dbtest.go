// Package dbtest hands tests a Postgres pool bound to a fresh, throwaway
// schema. Tests using it are skipped when TEST_DB_DSN is unset.
package dbtest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomzodai/nomzod-api/internal/db"
)

const dsnEnv = "TEST_DB_DSN"

// Enabled reports whether a test database is configured.
func Enabled() bool {
	return os.Getenv(dsnEnv) != ""
}

// NewPool creates a schema named after a random uuid, points the pool's
// search_path at it and creates the tables. The schema is dropped on cleanup.
func NewPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres test", dsnEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	ident := pgx.Identifier{schema}.Sanitize()

	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+ident); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		admin.Close()
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		admin.Close()
		t.Fatalf("connect to schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+ident+" CASCADE")
		admin.Close()
	})

	if err := db.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("%v", err)
	}

	return pool
}
