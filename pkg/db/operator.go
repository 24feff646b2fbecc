// Package db defines the database connection contract implemented by
// internal/iodb.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushafdb/mushafdb/pkg/config"
)

// Operator defines basic database management operations. It provides
// connection lifecycle management and exposes the pgxpool.Pool for the
// stores and engines to execute their specialized SQL internally.
//
// The interface stays minimal on purpose: schema creation and migration
// are handled by GORM AutoMigrate via the SchemaManager, while Pool()
// lets components use performance-critical pgx features (CopyFrom for
// bulk inserts, single-statement conditional updates).
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for components to execute
	// specialized SQL operations.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to decide whether schema creation should prompt
	// before dropping data.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema. Used during
	// schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
