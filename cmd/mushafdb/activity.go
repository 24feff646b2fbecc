package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mushafdb/mushafdb/internal/ioactivity"
	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

var (
	activityActor int64
	activityKind  string
	activityPage  int
	activityLimit int
)

func getActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "List the audit trail",
		Long: `List audit trail entries, newest first.

Examples:
  mushafdb activity
  mushafdb activity --actor 7 --action verse.reindex --page 2`,
		RunE: runActivity,
	}

	cmd.Flags().Int64Var(&activityActor, "actor", 0,
		"filter by actor id")
	cmd.Flags().StringVar(&activityKind, "action", "",
		"filter by action tag, e.g. verse.reindex")
	cmd.Flags().IntVar(&activityPage, "page", 1, "page number")
	cmd.Flags().IntVar(&activityLimit, "limit", 50, "entries per page")

	return cmd
}

func runActivity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer op.Close()

	recorder := ioactivity.New(op)
	page, err := recorder.List(ctx, corpus.ActivityQuery{
		ActorID: activityActor,
		Action:  activityKind,
		Page:    activityPage,
		Limit:   activityLimit,
	})
	if err != nil {
		return fmt.Errorf("cannot list audit trail: %w", err)
	}

	if len(page.Records) == 0 {
		fmt.Println("No audit records found.")
		return nil
	}

	for _, rec := range page.Records {
		fmt.Printf("%s  actor=%d  %s  %s/%d\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.ActorID, rec.Action, rec.EntityType, rec.EntityID)
	}
	fmt.Printf("\nPage %d of %d (%d records total).\n",
		page.Page, page.Pages, page.Total)

	return nil
}
