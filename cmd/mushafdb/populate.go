package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/iopopulate"
	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var (
	snapshotPath  string
	forcePopulate bool
)

func getPopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Bootstrap the corpus from a SQLite snapshot",
		Long: `Bootstrap the corpus from a canonical SQLite snapshot.

This command:
  1. Imports all 114 chapters with their metadata
  2. Bulk-imports all 6236 verses
  3. Seeds languages, translation sources and reciters from sources.yaml
  4. Verifies the imported corpus against the canonical shape

A corpus that already contains verses is refused unless --force is set,
in which case verses, translations and recitations are dropped first.

Examples:
  mushafdb populate --snapshot quran.sqlite
  mushafdb populate --snapshot quran.sqlite --force`,
		RunE: runPopulate,
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "",
		"path to the corpus SQLite snapshot (required)")
	cmd.Flags().BoolVar(&forcePopulate, "force", false,
		"drop existing corpus content before populating (destructive)")
	cmd.MarkFlagRequired("snapshot")

	return cmd
}

func runPopulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := getConfig()
	cfg.Update([]config.Option{
		config.OptPopulateSnapshotPath(snapshotPath),
		config.OptPopulateDropExisting(forcePopulate),
	})

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	pop := iopopulate.New(cfg, op)
	if err := pop.Populate(ctx); err != nil {
		return fmt.Errorf("population failed: %w", err)
	}

	fmt.Println("\nCorpus population complete.")
	return nil
}
