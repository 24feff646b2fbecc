package ioactivity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/ioactivity"
	"github.com/mushafdb/mushafdb/internal/iotesting"
	"github.com/mushafdb/mushafdb/pkg/corpus"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	recorder := ioactivity.New(op)

	recorder.Record(ctx, corpus.ActivityEntry{
		ActorID:    7,
		Action:     "verse.update",
		EntityType: "verse",
		EntityID:   42,
		OldValues:  map[string]string{"text": "old"},
		NewValues:  map[string]string{"text": "new"},
		Client:     "test",
	})
	recorder.Record(ctx, corpus.ActivityEntry{
		ActorID:    8,
		Action:     "translation.upsert",
		EntityType: "translation",
		EntityID:   1,
	})

	page, err := recorder.List(ctx, corpus.ActivityQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Records, 2)

	// Filter by actor.
	page, err = recorder.List(ctx, corpus.ActivityQuery{ActorID: 7})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "verse.update", page.Records[0].Action)
	assert.Contains(t, string(page.Records[0].NewValues), "new")

	// Filter by action.
	page, err = recorder.List(ctx, corpus.ActivityQuery{
		Action: "translation.upsert",
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(8), page.Records[0].ActorID)
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	recorder := ioactivity.New(op)

	for i := 0; i < 5; i++ {
		recorder.Record(ctx, corpus.ActivityEntry{
			ActorID: 1,
			Action:  "verse.update",
		})
	}

	page, err := recorder.List(ctx, corpus.ActivityQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Records, 2)

	last, err := recorder.List(ctx, corpus.ActivityQuery{Limit: 2, Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Records, 1)
}

// Record never propagates failures; with a broken table it must only
// log, not panic or error.
func TestRecordSwallowsFailure(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	recorder := ioactivity.New(op)

	_, err := op.Pool().Exec(ctx, `DROP TABLE activity_records`)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		recorder.Record(ctx, corpus.ActivityEntry{
			ActorID: 1,
			Action:  "verse.update",
		})
	})
}
