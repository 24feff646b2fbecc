// Package ioschema implements the SchemaManager contract for database
// schema management. This is an impure I/O package that wraps GORM
// AutoMigrate functionality.
package ioschema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
	"github.com/mushafdb/mushafdb/pkg/schema"
)

// manager implements the corpus.SchemaManager interface using GORM
// AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) corpus.SchemaManager {
	return &manager{operator: op}
}

// Create creates the initial database schema using GORM AutoMigrate.
// Also installs the trigram extension and index used by translation
// search.
func (m *manager) Create(ctx context.Context) error {
	if err := m.autoMigrate(); err != nil {
		return err
	}

	if err := m.setupForeignKeys(ctx); err != nil {
		return err
	}

	return m.setupSearchIndex(ctx)
}

// Migrate updates the database schema to the latest version using GORM
// AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	if err := m.autoMigrate(); err != nil {
		return err
	}

	if err := m.setupForeignKeys(ctx); err != nil {
		return err
	}

	return m.setupSearchIndex(ctx)
}

func (m *manager) autoMigrate() error {
	pool := m.operator.Pool()
	if pool == nil {
		return corpus.NewStorageError("schema migrate",
			errNotConnected)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return corpus.NewStorageError("gorm connection", err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return corpus.NewStorageError("schema migrate", err)
	}

	return nil
}

// setupForeignKeys adds referential constraints between annotation and
// corpus tables. Constraints use RESTRICT: the corpus store performs its
// cascade explicitly inside a transaction, so an annotation row can never
// silently reference a missing verse, source or reciter.
func (m *manager) setupForeignKeys(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return corpus.NewStorageError("foreign keys", errNotConnected)
	}

	type fk struct {
		name, table, column, refTable string
	}

	constraints := []fk{
		{"fk_verses_chapter", "verses", "chapter_id", "chapters"},
		{"fk_sources_language", "sources", "language_id", "languages"},
		{"fk_translations_verse", "translations", "verse_id", "verses"},
		{"fk_translations_source", "translations", "source_id", "sources"},
		{"fk_recitations_verse", "recitations", "verse_id", "verses"},
		{"fk_recitations_reciter", "recitations", "reciter_id", "reciters"},
	}

	stmt := `DO $$ BEGIN
		IF NOT EXISTS (
			SELECT FROM pg_constraint WHERE conname = '%s'
		) THEN
			ALTER TABLE %s ADD CONSTRAINT %s
				FOREIGN KEY (%s) REFERENCES %s (id)
				ON DELETE RESTRICT;
		END IF;
	END $$`

	for _, c := range constraints {
		sql := fmt.Sprintf(stmt, c.name, c.table, c.name, c.column, c.refTable)
		if _, err := pool.Exec(ctx, sql); err != nil {
			return corpus.NewStorageError("foreign key "+c.name, err)
		}
	}

	return nil
}

// setupSearchIndex installs pg_trgm and a trigram index on translation
// text. ILIKE search over thousands of rows stays indexed instead of
// degrading to sequential scans.
func (m *manager) setupSearchIndex(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return corpus.NewStorageError("search index", errNotConnected)
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE INDEX IF NOT EXISTS idx_translations_text_trgm
			ON translations USING gin (text gin_trgm_ops)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return corpus.NewStorageError("search index", err)
		}
	}

	return nil
}
