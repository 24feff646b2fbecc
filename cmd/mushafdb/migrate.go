package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioschema"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Applies database migrations",
		Long: "Applies all pending database migrations to bring the " +
			"schema to the latest version. Existing data is preserved.",
		RunE: runMigrate,
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	var sm corpus.SchemaManager = ioschema.NewManager(op)

	fmt.Println("Applying database migrations...")
	if err := sm.Migrate(ctx); err != nil {
		return fmt.Errorf("cannot migrate schema: %w", err)
	}

	fmt.Println("\nDatabase migration complete.")
	return nil
}
