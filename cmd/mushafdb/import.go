package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/ioannot"
	"github.com/mushafdb/mushafdb/internal/iocorpus"
	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioexchange"
	"github.com/mushafdb/mushafdb/internal/iofs"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var importSourceID int64

func getImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-import translations from CSV",
		Long: `Bulk-import translations from a CSV file into one source.

Accepted row layouts:
  chapter, verse, translation
  verse, translation            (chapter defaults to 1)

A header row is skipped automatically. Malformed or unresolvable rows
are reported with their line numbers and never abort the batch; the
import always runs to completion.

Examples:
  mushafdb import --source 3 translations.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int64Var(&importSourceID, "source", 0,
		"id of the translation source to import into (required)")
	cmd.MarkFlagRequired("source")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := getConfig()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open import file: %w", err)
	}
	defer f.Close()

	var op db.Operator = iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	exch, err := newExchanger(op, true)
	if err != nil {
		return err
	}

	res, err := exch.ImportCSV(ctx, f, importSourceID)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d translations.\n", res.Imported)
	if len(res.Errors) > 0 {
		fmt.Printf("%d rows failed:\n", len(res.Errors))
		for _, re := range res.Errors {
			fmt.Printf("  line %d: %s\n", re.Row, re.Msg)
		}
	}

	return nil
}

// newExchanger wires the bulk exchange engine with its store
// dependencies.
func newExchanger(
	op db.Operator,
	showProgress bool,
) (corpus.Exchanger, error) {
	cfg := getConfig()

	files, err := iofs.New(cfg.Media.Dir)
	if err != nil {
		return nil, err
	}

	store := iocorpus.New(op)
	annotations := ioannot.New(op, files)
	return ioexchange.New(op, store, annotations, showProgress), nil
}
