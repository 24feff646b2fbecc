// Package ioexchange implements the corpus.Exchanger contract: streaming
// import and export of translations in row-oriented form with row-level
// failure tolerance.
package ioexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// progressThreshold is the batch size from which a progress bar is shown.
const progressThreshold = 100

// exchanger implements corpus.Exchanger.
type exchanger struct {
	operator    db.Operator
	store       corpus.Store
	annotations corpus.Annotations

	// showProgress renders a terminal progress bar for large batches.
	showProgress bool
}

// New creates a bulk exchange engine. showProgress enables a terminal
// progress bar for batches of at least 100 rows.
func New(
	op db.Operator,
	store corpus.Store,
	annotations corpus.Annotations,
	showProgress bool,
) corpus.Exchanger {
	return &exchanger{
		operator:     op,
		store:        store,
		annotations:  annotations,
		showProgress: showProgress,
	}
}

// exportDoc is the JSON envelope of a chapter export.
type exportDoc struct {
	ChapterID    int                `json:"chapter_number"`
	Translations []corpus.ExportRow `json:"translations"`
}

// ExportChapter writes one chapter's translations to w ordered by
// position ascending. The query left-joins translations so verses
// lacking one still appear with empty translation fields.
func (e *exchanger) ExportChapter(
	ctx context.Context,
	chapterID int,
	sourceID int64,
	format corpus.ExportFormat,
	w io.Writer,
) error {
	if chapterID < 1 || chapterID > corpus.ChapterCount {
		return corpus.NewValidationError("chapter id",
			"must be between 1 and %d, got %d",
			corpus.ChapterCount, chapterID)
	}

	rows, err := e.exportRows(ctx, chapterID, sourceID)
	if err != nil {
		return err
	}

	switch format {
	case corpus.FormatCSV:
		return writeCSV(w, rows)
	case corpus.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		doc := exportDoc{ChapterID: chapterID, Translations: rows}
		if err := enc.Encode(doc); err != nil {
			return corpus.NewStorageError("encode export", err)
		}
		return nil
	default:
		return corpus.NewValidationError("export format",
			"must be %q or %q, got %q",
			corpus.FormatJSON, corpus.FormatCSV, format)
	}
}

// exportRows runs the left-joined export query. A zero sourceID exports
// translations of every source.
func (e *exchanger) exportRows(
	ctx context.Context,
	chapterID int,
	sourceID int64,
) ([]corpus.ExportRow, error) {
	joinCond := `t.verse_id = v.id`
	args := []any{chapterID}
	if sourceID != 0 {
		joinCond += ` AND t.source_id = $2`
		args = append(args, sourceID)
	}

	query := fmt.Sprintf(`SELECT
			v.position_in_chapter, v.text_arabic,
			COALESCE(t.text, ''), COALESCE(src.name, ''),
			COALESCE(l.code, '')
		FROM verses v
		LEFT JOIN translations t ON %s
		LEFT JOIN sources src ON t.source_id = src.id
		LEFT JOIN languages l ON src.language_id = l.id
		WHERE v.chapter_id = $1
		ORDER BY v.position_in_chapter`, joinCond)

	dbRows, err := e.operator.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, corpus.NewStorageError("export query", err)
	}
	defer dbRows.Close()

	var res []corpus.ExportRow
	for dbRows.Next() {
		var r corpus.ExportRow
		err := dbRows.Scan(
			&r.PositionInChapter, &r.VerseText, &r.Translation,
			&r.SourceName, &r.LanguageCode,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan export row", err)
		}
		res = append(res, r)
	}
	if err := dbRows.Err(); err != nil {
		return nil, corpus.NewStorageError("export query", err)
	}

	return res, nil
}

// ImportRows upserts translations row by row. Per-row failures are
// collected and never abort subsequent rows: bulk operations on
// thousands of rows must not be all-or-nothing when the failure mode is
// localized bad data. Cancellation is honored between rows, leaving
// already-committed rows intact.
func (e *exchanger) ImportRows(
	ctx context.Context,
	rows []corpus.ImportRow,
	sourceID int64,
) (*corpus.ImportResult, error) {
	res := &corpus.ImportResult{}

	var bar *pb.ProgressBar
	if e.showProgress && len(rows) >= progressThreshold {
		bar = pb.StartNew(len(rows))
		defer bar.Finish()
	}

	for i, row := range rows {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if bar != nil {
			bar.Increment()
		}

		rowNum := i + 1
		if err := e.importRow(ctx, row, sourceID); err != nil {
			res.Errors = append(res.Errors, corpus.RowError{
				Row:               rowNum,
				ChapterID:         row.ChapterID,
				PositionInChapter: row.PositionInChapter,
				Msg:               err.Error(),
			})
			continue
		}
		res.Imported++
	}

	slog.Info("Import finished",
		"imported", res.Imported,
		"failed", len(res.Errors))
	if res.Imported > 0 {
		slog.Debug("Imported translations",
			"count", humanize.Comma(int64(res.Imported)))
	}

	return res, nil
}

// importRow resolves the verse and upserts one translation. Per-row
// atomicity only: the upsert is a single statement.
func (e *exchanger) importRow(
	ctx context.Context,
	row corpus.ImportRow,
	sourceID int64,
) error {
	if row.Translation == "" {
		return corpus.NewValidationError("translation text",
			"must not be empty")
	}

	verse, err := e.store.ResolveVerse(
		ctx, row.ChapterID, row.PositionInChapter)
	if err != nil {
		return err
	}

	return e.annotations.UpsertTranslation(
		ctx, verse.ID, sourceID, row.Translation, "", false, 0)
}

// ImportCSV parses delimited input and imports it row by row.
// Malformed rows become row-level errors keyed by their line in the
// input; a bad row never aborts the batch.
func (e *exchanger) ImportCSV(
	ctx context.Context,
	r io.Reader,
	sourceID int64,
) (*corpus.ImportResult, error) {
	rows, parseErrs, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	res := &corpus.ImportResult{Errors: parseErrs}

	var bar *pb.ProgressBar
	if e.showProgress && len(rows) >= progressThreshold {
		bar = pb.StartNew(len(rows))
		defer bar.Finish()
	}

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if bar != nil {
			bar.Increment()
		}

		if err := e.importRow(ctx, row.ImportRow, sourceID); err != nil {
			res.Errors = append(res.Errors, corpus.RowError{
				Row:               row.Line,
				ChapterID:         row.ChapterID,
				PositionInChapter: row.PositionInChapter,
				Msg:               err.Error(),
			})
			continue
		}
		res.Imported++
	}

	slog.Info("CSV import finished",
		"imported", res.Imported,
		"failed", len(res.Errors))

	return res, nil
}
