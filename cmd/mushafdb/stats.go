package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/iocorpus"
	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/internal/ioreindex"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var statsCheckOrdering bool

func getStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus-wide statistics",
		Long: `Show corpus-wide counters: chapters, verses, translations,
recitations, sources and reciters.

With --check-ordering the corpus-wide verse ordering is also scanned for
monotonicity violations.

Examples:
  mushafdb stats
  mushafdb stats --check-ordering`,
		RunE: runStats,
	}

	cmd.Flags().BoolVar(&statsCheckOrdering, "check-ordering", false,
		"scan corpus-wide verse ordering for violations")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	store := iocorpus.New(op)
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("cannot gather statistics: %w", err)
	}

	fmt.Println("Corpus statistics")
	fmt.Println("-----------------")
	fmt.Printf("Chapters:           %d\n", stats.Chapters)
	fmt.Printf("Verses:             %s\n", humanize.Comma(int64(stats.Verses)))
	fmt.Printf("Translations:       %s\n", humanize.Comma(int64(stats.Translations)))
	fmt.Printf("  approved:         %s\n", humanize.Comma(int64(stats.ApprovedCount)))
	fmt.Printf("  verses covered:   %s\n", humanize.Comma(int64(stats.TranslatedVerses)))
	fmt.Printf("Recitations:        %s\n", humanize.Comma(int64(stats.Recitations)))
	fmt.Printf("  verses covered:   %s\n", humanize.Comma(int64(stats.VersesWithAudio)))
	fmt.Printf("  audio stored:     %s\n", humanize.Bytes(uint64(stats.TotalAudioBytes)))
	fmt.Printf("Active sources:     %d\n", stats.ActiveSources)
	fmt.Printf("Active reciters:    %d\n", stats.ActiveReciters)

	if !statsCheckOrdering {
		return nil
	}

	fmt.Println("\nChecking corpus-wide verse ordering...")
	violations, err := ioreindex.CheckOrdering(ctx, op)
	if err != nil {
		return fmt.Errorf("ordering check failed: %w", err)
	}

	if len(violations) == 0 {
		fmt.Println("Ordering is strictly increasing, no violations found.")
		return nil
	}

	fmt.Printf("%d ordering violations found:\n", len(violations))
	for _, v := range violations {
		fmt.Printf(
			"  verse %d at %d:%d has position %d, previous verse has %d\n",
			v.VerseID, v.Address.ChapterID, v.Address.PositionInChapter,
			v.Address.PositionInMushaf, v.PreviousPosition)
	}

	return nil
}
