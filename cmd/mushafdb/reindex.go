package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/ioactivity"
	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioreindex"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var (
	reindexChapter  int
	reindexPosition int
	reindexMushaf   int
	reindexActor    int64
)

func getReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex <verse-id>",
		Short: "Move a verse to a new structural address",
		Long: `Move one verse to a new structural address.

The new address (chapter, position in chapter, corpus-wide position) is
validated against range limits and checked for collisions with committed
verses before being applied atomically. A collision names the verse
already holding the contested address.

Examples:
  mushafdb reindex 42 --chapter 2 --position 35 --mushaf 42`,
		Args: cobra.ExactArgs(1),
		RunE: runReindex,
	}

	cmd.Flags().IntVar(&reindexChapter, "chapter", 0,
		"target chapter id (required)")
	cmd.Flags().IntVar(&reindexPosition, "position", 0,
		"target position within the chapter (required)")
	cmd.Flags().IntVar(&reindexMushaf, "mushaf", 0,
		"target corpus-wide position (required)")
	cmd.Flags().Int64Var(&reindexActor, "actor", 0,
		"id of the editor performing the change")
	cmd.MarkFlagRequired("chapter")
	cmd.MarkFlagRequired("position")
	cmd.MarkFlagRequired("mushaf")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var verseID int64
	if _, err := fmt.Sscanf(args[0], "%d", &verseID); err != nil {
		return fmt.Errorf("verse id must be a number, got %q", args[0])
	}

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	target := corpus.VerseAddress{
		ChapterID:         reindexChapter,
		PositionInChapter: reindexPosition,
		PositionInMushaf:  reindexMushaf,
	}

	req := corpus.NewReindexRequest(verseID, target)
	engine := ioreindex.New(op)
	if err := engine.Reindex(ctx, req); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	recorder := ioactivity.New(op)
	recorder.Record(ctx, corpus.ActivityEntry{
		ActorID:    reindexActor,
		Action:     "verse.reindex",
		EntityType: "verse",
		EntityID:   verseID,
		NewValues:  target,
		Client:     "mushafdb-cli",
	})

	fmt.Printf("Verse %d moved to %d:%d (corpus position %d).\n",
		verseID, target.ChapterID, target.PositionInChapter,
		target.PositionInMushaf)
	return nil
}
