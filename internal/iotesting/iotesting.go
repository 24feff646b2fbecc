// Package iotesting provides shared helpers for integration tests that
// need a live PostgreSQL instance. Tests using these helpers skip
// themselves unless MUSHAFDB_TEST_DB names a disposable database.
package iotesting

import (
	"context"
	"os"
	"testing"

	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioschema"
	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// TestDBEnvVar names the environment variable holding the test database
// name. The database must exist and its content is disposable.
const TestDBEnvVar = "MUSHAFDB_TEST_DB"

// Operator connects to the test database or skips the test. The pool is
// closed during cleanup.
func Operator(t *testing.T, ctx context.Context) db.Operator {
	t.Helper()

	dbName := os.Getenv(TestDBEnvVar)
	if dbName == "" {
		t.Skipf("set %s to a disposable database to run this test",
			TestDBEnvVar)
	}

	cfg := config.New()
	cfg.Database.Database = dbName
	applyEnvOverrides(cfg)

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Fatalf("cannot connect to test database %q: %v", dbName, err)
	}
	t.Cleanup(func() { op.Close() })

	return op
}

// OperatorWithSchema connects and recreates the full schema from
// scratch, leaving empty tables.
func OperatorWithSchema(t *testing.T, ctx context.Context) db.Operator {
	t.Helper()

	op := Operator(t, ctx)
	if err := op.DropAllTables(ctx); err != nil {
		t.Fatalf("cannot reset test database: %v", err)
	}
	if err := ioschema.NewManager(op).Create(ctx); err != nil {
		t.Fatalf("cannot create schema: %v", err)
	}
	return op
}

func applyEnvOverrides(cfg *config.Config) {
	if host := os.Getenv("MUSHAFDB_DATABASE_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if user := os.Getenv("MUSHAFDB_DATABASE_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("MUSHAFDB_DATABASE_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
}
