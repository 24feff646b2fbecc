package ioexchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// csvHeader is the column layout of exported files.
var csvHeader = []string{
	"Verse Number", "Arabic Text", "Translation", "Source", "Language",
}

// writeCSV renders export rows with a header line. Quoting of embedded
// commas and quotes is handled by encoding/csv.
func writeCSV(w io.Writer, rows []corpus.ExportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return corpus.NewStorageError("write csv header", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.PositionInChapter),
			r.VerseText,
			r.Translation,
			r.SourceName,
			r.LanguageCode,
		}
		if err := cw.Write(rec); err != nil {
			return corpus.NewStorageError("write csv row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return corpus.NewStorageError("flush csv", err)
	}
	return nil
}

// numberedRow keeps the original input line of a parsed row so failures
// later in the pipeline can point back at the file.
type numberedRow struct {
	corpus.ImportRow
	Line int
}

// parseCSV reads delimited import data. Accepted layouts per line:
//
//	chapter, position, translation
//	position, translation        (chapter defaults to 1)
//
// A header line is skipped when its first field is not numeric. Lines
// with fewer than two fields, or with non-numeric address fields,
// become row errors instead of aborting the parse.
func parseCSV(r io.Reader) ([]numberedRow, []corpus.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows    []numberedRow
		rowErrs []corpus.RowError
		line    int
	)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, corpus.RowError{
				Row: line,
				Msg: fmt.Sprintf("malformed csv: %v", err),
			})
			continue
		}

		if line == 1 && looksLikeHeader(rec) {
			continue
		}

		row, err := parseRecord(rec)
		if err != nil {
			rowErrs = append(rowErrs, corpus.RowError{
				Row: line,
				Msg: err.Error(),
			})
			continue
		}
		rows = append(rows, numberedRow{ImportRow: row, Line: line})
	}

	return rows, rowErrs, nil
}

func parseRecord(rec []string) (corpus.ImportRow, error) {
	var row corpus.ImportRow

	switch {
	case len(rec) >= 3:
		chapter, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return row, fmt.Errorf("chapter id %q is not a number", rec[0])
		}
		pos, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return row, fmt.Errorf("verse position %q is not a number", rec[1])
		}
		row.ChapterID = chapter
		row.PositionInChapter = pos
		row.Translation = rec[2]
	case len(rec) == 2:
		pos, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return row, fmt.Errorf("verse position %q is not a number", rec[0])
		}
		row.ChapterID = 1
		row.PositionInChapter = pos
		row.Translation = rec[1]
	default:
		return row, fmt.Errorf("need at least 2 fields, got %d", len(rec))
	}

	if strings.TrimSpace(row.Translation) == "" {
		return row, fmt.Errorf("translation text is empty")
	}
	return row, nil
}

func looksLikeHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	return err != nil
}
