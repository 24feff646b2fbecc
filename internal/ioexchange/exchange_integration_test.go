package ioexchange_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/ioannot"
	"github.com/mushafdb/mushafdb/internal/iocorpus"
	"github.com/mushafdb/mushafdb/internal/ioexchange"
	"github.com/mushafdb/mushafdb/internal/iotesting"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

func seedExchange(t *testing.T, ctx context.Context, op db.Operator) {
	t.Helper()

	_, err := op.Pool().Exec(ctx, `INSERT INTO chapters
		(id, name_arabic, name_english, name_transliterated,
		 revelation_type, verse_count, has_basmala)
		VALUES (1, 'الفاتحة', 'The Opening', 'Al-Fatihah', 'meccan', 7, true)`)
	require.NoError(t, err)

	_, err = op.Pool().Exec(ctx, `INSERT INTO verses
		(chapter_id, position_in_chapter, position_in_mushaf,
		 text_arabic, text_uthmani, updated_at)
		VALUES
		(1, 1, 1, 'بِسْمِ اللَّهِ', 'بِسْمِ ٱللَّهِ', NOW()),
		(1, 2, 2, 'الْحَمْدُ لِلَّهِ', 'ٱلْحَمْدُ لِلَّهِ', NOW())`)
	require.NoError(t, err)

	_, err = op.Pool().Exec(ctx, `INSERT INTO languages
		(name, code, direction) VALUES ('English', 'en', 'ltr')`)
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, `INSERT INTO sources
		(name, author, language_id, is_active)
		VALUES ('Test Source', 'Tester', 1, true)`)
	require.NoError(t, err)
}

func newIntegrationExchanger(op db.Operator) corpus.Exchanger {
	store := iocorpus.New(op)
	annotations := ioannot.New(op, nil)
	return ioexchange.New(op, store, annotations, false)
}

func TestImportThenExportJSON(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	seedExchange(t, ctx, op)
	exch := newIntegrationExchanger(op)

	csvInput := strings.Join([]string{
		"Chapter,Verse,Translation",
		"1,1,In the name of God",
		"1,2,Praise belongs to God",
	}, "\n")

	res, err := exch.ImportCSV(ctx, strings.NewReader(csvInput), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)

	var buf bytes.Buffer
	err = exch.ExportChapter(ctx, 1, 1, corpus.FormatJSON, &buf)
	require.NoError(t, err)

	var doc struct {
		ChapterID    int                `json:"chapter_number"`
		Translations []corpus.ExportRow `json:"translations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 1, doc.ChapterID)
	require.Len(t, doc.Translations, 2)
	assert.Equal(t, 1, doc.Translations[0].PositionInChapter)
	assert.Equal(t, "In the name of God", doc.Translations[0].Translation)
	assert.Equal(t, "Test Source", doc.Translations[0].SourceName)
	assert.Equal(t, "en", doc.Translations[0].LanguageCode)
}

func TestExportCoversUntranslatedVerses(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	seedExchange(t, ctx, op)
	exch := newIntegrationExchanger(op)

	rows := []corpus.ImportRow{
		{ChapterID: 1, PositionInChapter: 2, Translation: "Praise belongs to God"},
	}
	res, err := exch.ImportRows(ctx, rows, 1)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	var buf bytes.Buffer
	require.NoError(t,
		exch.ExportChapter(ctx, 1, 1, corpus.FormatCSV, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus both verses; the untranslated one has empty fields.
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.Contains(t, lines[2], "Praise belongs to God")
}

func TestExportRejectsBadChapterAndFormat(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	seedExchange(t, ctx, op)
	exch := newIntegrationExchanger(op)

	var buf bytes.Buffer
	err := exch.ExportChapter(ctx, 0, 0, corpus.FormatJSON, &buf)
	assert.Error(t, err)

	err = exch.ExportChapter(ctx, 1, 0, corpus.ExportFormat("xml"), &buf)
	assert.Error(t, err)
}
