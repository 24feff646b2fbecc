package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var (
	exportSourceID int64
	exportFormat   string
	exportOutput   string
)

func getExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <chapter>",
		Short: "Export chapter translations as JSON or CSV",
		Long: `Export one chapter's translations ordered by verse position.

Verses without a translation still appear with empty translation fields,
so the export always covers the whole chapter.

Examples:
  mushafdb export 2 --source 3 --format csv -o chapter2.csv
  mushafdb export 114 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().Int64Var(&exportSourceID, "source", 0,
		"translation source id (0 exports all sources)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json",
		"output format: json or csv")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var chapterID int
	if _, err := fmt.Sscanf(args[0], "%d", &chapterID); err != nil {
		return fmt.Errorf("chapter must be a number, got %q", args[0])
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	exch, err := newExchanger(op, false)
	if err != nil {
		return err
	}

	format := corpus.ExportFormat(exportFormat)
	err = exch.ExportChapter(ctx, chapterID, exportSourceID, format, out)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported chapter %d to %s\n",
			chapterID, exportOutput)
	}
	return nil
}
