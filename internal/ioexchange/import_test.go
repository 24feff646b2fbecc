package ioexchange

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/schema"
)

// stubStore resolves verses from a fixed address map.
type stubStore struct {
	corpus.Store
	verses map[[2]int]int64
}

func (s *stubStore) ResolveVerse(
	_ context.Context,
	chapterID, position int,
) (*corpus.VerseView, error) {
	id, ok := s.verses[[2]int{chapterID, position}]
	if !ok {
		return nil, corpus.NewNotFoundError("verse", 0)
	}
	view := &corpus.VerseView{}
	view.Verse = schema.Verse{
		ID:                id,
		ChapterID:         chapterID,
		PositionInChapter: position,
	}
	return view, nil
}

// stubAnnotations records upserts and fails on demand.
type stubAnnotations struct {
	corpus.Annotations
	upserts  []int64
	failText string
}

func (s *stubAnnotations) UpsertTranslation(
	_ context.Context,
	verseID, _ int64,
	text, _ string,
	_ bool, _ int64,
) error {
	if text == "" {
		return corpus.NewValidationError("translation text",
			"must not be empty")
	}
	if s.failText != "" && text == s.failText {
		return corpus.NewReferenceError("source", 99)
	}
	s.upserts = append(s.upserts, verseID)
	return nil
}

func newTestExchanger(
	store corpus.Store,
	annot corpus.Annotations,
) *exchanger {
	return &exchanger{store: store, annotations: annot}
}

func TestImportRowsPartialFailure(t *testing.T) {
	store := &stubStore{verses: map[[2]int]int64{
		{1, 1}: 10,
		{1, 2}: 11,
		{2, 1}: 20,
	}}
	annot := &stubAnnotations{failText: "poison"}
	exch := newTestExchanger(store, annot)

	rows := []corpus.ImportRow{
		{ChapterID: 1, PositionInChapter: 1, Translation: "first"},
		{ChapterID: 9, PositionInChapter: 9, Translation: "no such verse"},
		{ChapterID: 1, PositionInChapter: 2, Translation: "poison"},
		{ChapterID: 2, PositionInChapter: 1, Translation: "last"},
	}

	res, err := exch.ImportRows(context.Background(), rows, 1)
	require.NoError(t, err)

	// Failed rows never abort the batch.
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []int64{10, 20}, annot.upserts)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Msg, "not found")
	assert.Equal(t, 3, res.Errors[1].Row)
}

func TestImportRowsEmptyTranslation(t *testing.T) {
	store := &stubStore{verses: map[[2]int]int64{{1, 1}: 10}}
	annot := &stubAnnotations{}
	exch := newTestExchanger(store, annot)

	rows := []corpus.ImportRow{
		{ChapterID: 1, PositionInChapter: 1, Translation: ""},
	}

	res, err := exch.ImportRows(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Msg, "empty")
}

func TestImportRowsCancellation(t *testing.T) {
	store := &stubStore{verses: map[[2]int]int64{{1, 1}: 10}}
	annot := &stubAnnotations{}
	exch := newTestExchanger(store, annot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []corpus.ImportRow{
		{ChapterID: 1, PositionInChapter: 1, Translation: "never imported"},
	}

	res, err := exch.ImportRows(ctx, rows, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Imported)
	assert.Empty(t, annot.upserts)
}

func TestImportCSVReportsLineNumbers(t *testing.T) {
	store := &stubStore{verses: map[[2]int]int64{
		{1, 1}: 10,
		{1, 2}: 11,
	}}
	annot := &stubAnnotations{}
	exch := newTestExchanger(store, annot)

	input := strings.Join([]string{
		"Chapter,Verse,Translation",
		"1,1,In the name of God",
		"broken",
		"1,2,Praise belongs to God",
		"3,7,verse does not exist",
	}, "\n")

	res, err := exch.ImportCSV(
		context.Background(), strings.NewReader(input), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 2)

	// Errors carry the original input line, header included in the count.
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 5, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Msg, "not found")
}
