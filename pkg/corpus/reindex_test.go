package corpus_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

func TestReindexStateString(t *testing.T) {
	assert.Equal(t, "proposed", corpus.StateProposed.String())
	assert.Equal(t, "validated", corpus.StateValidated.String())
	assert.Equal(t, "committed", corpus.StateCommitted.String())
	assert.Equal(t, "rejected", corpus.StateRejected.String())
	assert.Equal(t, "unknown", corpus.ReindexState(99).String())
}

func TestNewReindexRequest(t *testing.T) {
	target := corpus.VerseAddress{
		ChapterID:         2,
		PositionInChapter: 255,
		PositionInMushaf:  262,
	}
	req := corpus.NewReindexRequest(42, target)

	assert.Equal(t, corpus.StateProposed, req.State)
	assert.Equal(t, int64(42), req.VerseID)
	assert.Equal(t, target, req.Target)
	assert.Nil(t, req.Err)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		addr    corpus.VerseAddress
		wantErr string
	}{
		{
			name: "valid address",
			addr: corpus.VerseAddress{
				ChapterID: 1, PositionInChapter: 1, PositionInMushaf: 1,
			},
		},
		{
			name: "last verse",
			addr: corpus.VerseAddress{
				ChapterID:         114,
				PositionInChapter: 6,
				PositionInMushaf:  6236,
			},
		},
		{
			name: "chapter too small",
			addr: corpus.VerseAddress{
				ChapterID: 0, PositionInChapter: 1, PositionInMushaf: 1,
			},
			wantErr: "chapter id",
		},
		{
			name: "chapter too large",
			addr: corpus.VerseAddress{
				ChapterID: 115, PositionInChapter: 1, PositionInMushaf: 1,
			},
			wantErr: "chapter id",
		},
		{
			name: "position in chapter zero",
			addr: corpus.VerseAddress{
				ChapterID: 1, PositionInChapter: 0, PositionInMushaf: 1,
			},
			wantErr: "position in chapter",
		},
		{
			name: "mushaf position zero",
			addr: corpus.VerseAddress{
				ChapterID: 1, PositionInChapter: 1, PositionInMushaf: 0,
			},
			wantErr: "position in mushaf",
		},
		{
			name: "mushaf position beyond corpus",
			addr: corpus.VerseAddress{
				ChapterID:         1,
				PositionInChapter: 1,
				PositionInMushaf:  6237,
			},
			wantErr: "position in mushaf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.addr.ValidateRanges()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *corpus.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantErr, verr.Field)
		})
	}
}
