package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioschema"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var forceCreate bool

func getCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the corpus database schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates all base tables using GORM AutoMigrate
  4. Adds foreign key constraints and the translation search index

Use --force to skip confirmation and drop existing tables automatically.

Examples:
  mushafdb create
  mushafdb create --force
  mushafdb create --config custom.yaml`,
		RunE: runCreate,
	}

	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return fmt.Errorf("cannot check for existing tables: %w", err)
	}

	if hasTables {
		if !forceCreate {
			fmt.Println("\nWarning: database contains existing tables.")
			fmt.Println("Creating schema will drop ALL existing tables and data.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("cannot read user input: %w", err)
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				fmt.Println("Aborted. No changes made to the database.")
				return nil
			}
		}

		fmt.Println("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			return fmt.Errorf("cannot drop tables: %w", err)
		}
	}

	var sm corpus.SchemaManager = ioschema.NewManager(op)

	fmt.Println("Creating schema...")
	if err := sm.Create(ctx); err != nil {
		return fmt.Errorf("cannot create schema: %w", err)
	}

	fmt.Println("\nDatabase schema creation complete.")
	fmt.Println("\nNext steps:")
	fmt.Println("  - Run 'mushafdb populate' to bootstrap the corpus from a snapshot")
	fmt.Println("  - Run 'mushafdb import' to bulk-import translations")

	return nil
}
