package ioannot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/ioannot"
	"github.com/mushafdb/mushafdb/internal/iodb"
	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// Query length validation runs before any database work, so it is
// testable with an unconnected operator.
func TestSearchRejectsShortQuery(t *testing.T) {
	store := ioannot.New(iodb.NewPgxOperator(), nil)

	for _, q := range []string{"", "a", "ab"} {
		_, err := store.Search(context.Background(), corpus.SearchQuery{
			Text: q,
		})
		require.Error(t, err, "query %q", q)

		var verr *corpus.ValidationError
		assert.True(t, errors.As(err, &verr))
	}
}

// Rune count, not byte count, decides query length: two Arabic letters
// are six bytes but still too short.
func TestSearchCountsRunes(t *testing.T) {
	store := ioannot.New(iodb.NewPgxOperator(), nil)

	_, err := store.Search(context.Background(), corpus.SearchQuery{
		Text: "ال",
	})
	require.Error(t, err)

	var verr *corpus.ValidationError
	assert.True(t, errors.As(err, &verr))
}
