package ioexchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Chapter,Verse,Translation",
		"1,1,In the name of God",
		`2,255,"The Throne Verse, the greatest verse"`,
		"3,not-a-number,broken address",
		"only-one-field",
		"5,  ",
		"7,Short form row",
	}, "\n")

	rows, rowErrs, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].ChapterID)
	assert.Equal(t, 1, rows[0].PositionInChapter)
	assert.Equal(t, "In the name of God", rows[0].Translation)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, 2, rows[1].ChapterID)
	assert.Equal(t, 255, rows[1].PositionInChapter)
	assert.Equal(t, "The Throne Verse, the greatest verse", rows[1].Translation)

	// Two-field rows default to chapter 1.
	assert.Equal(t, 1, rows[2].ChapterID)
	assert.Equal(t, 7, rows[2].PositionInChapter)
	assert.Equal(t, "Short form row", rows[2].Translation)
	assert.Equal(t, 7, rows[2].Line)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 4, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Msg, "not a number")
	assert.Equal(t, 5, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Msg, "at least 2 fields")
	assert.Equal(t, 6, rowErrs[2].Row)
	assert.Contains(t, rowErrs[2].Msg, "empty")
}

func TestParseCSVNoHeader(t *testing.T) {
	input := "1,1,First verse\n1,2,Second verse\n"
	rows, rowErrs, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Line)
}

func TestParseCSVEmpty(t *testing.T) {
	rows, rowErrs, err := parseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rowErrs)
}

func TestWriteCSV(t *testing.T) {
	rows := []corpus.ExportRow{
		{
			PositionInChapter: 1,
			VerseText:         "بِسْمِ اللَّهِ",
			Translation:       `He said, "follow me"`,
			SourceName:        "Sahih International",
			LanguageCode:      "en",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, rows))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"Verse Number,Arabic Text,Translation,Source,Language", lines[0])
	assert.Contains(t, lines[1], `"He said, ""follow me"""`)
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
}
