// Package corpus defines the contracts of the mushafdb core: corpus and
// annotation storage, reindexing integrity, and bulk exchange. The
// interfaces here are pure; impure implementations live in internal/io*.
package corpus

import (
	"time"

	"github.com/mushafdb/mushafdb/pkg/schema"
)

const (
	// ChapterCount is the fixed number of chapters in the corpus.
	ChapterCount = 114

	// VerseCount is the fixed number of verses in the corpus.
	VerseCount = 6236

	// PlaceholderText marks a provisioned verse whose primary text has
	// not been entered yet. Primary text must never be empty, so even a
	// placeholder row carries this sentinel until the real text arrives.
	PlaceholderText = "[pending verse text]"
)

// VerseAddress is the structural address of a verse: chapter, 1-based
// position within the chapter, and 1-based position within the whole
// corpus.
type VerseAddress struct {
	ChapterID         int
	PositionInChapter int
	PositionInMushaf  int
}

// VerseView is a verse annotated with a derived audio flag. HasAudio is
// aggregated in one batched lookup for a whole chapter, never per verse.
type VerseView struct {
	schema.Verse
	HasAudio bool
}

// ChapterWithVerses is a chapter together with its verses ordered by
// position within the chapter.
type ChapterWithVerses struct {
	schema.Chapter
	Verses []VerseView
}

// SourceRecord is a translation source joined with its language metadata.
type SourceRecord struct {
	schema.Source
	LanguageName      string
	LanguageCode      string
	LanguageDirection string
}

// TranslationRecord is a translation joined with its verse address and
// source metadata.
type TranslationRecord struct {
	schema.Translation
	ChapterID         int
	PositionInChapter int
	PositionInMushaf  int
	VerseText         string
	SourceName        string
	LanguageCode      string
}

// RecitationRecord is a recitation joined with its reciter's name.
type RecitationRecord struct {
	schema.Recitation
	ReciterName string
}

// RecitationUpload describes a stored recitation file to attach to a
// (verse, reciter) pair. Re-uploads for an existing pair replace the
// previous row.
type RecitationUpload struct {
	VerseID    int64
	ReciterID  int64
	FilePath   string
	FileName   string
	FileSize   int64
	Format     string
	UploadedBy int64
}

// AudioStatus reports recitation coverage for one verse of a chapter.
type AudioStatus struct {
	VerseID           int64
	PositionInChapter int
	HasAudio          bool
	AudioCount        int
	LatestUpload      *time.Time
}

// SearchQuery describes a translation text search. Text must be at least
// MinSearchLength runes; shorter queries are rejected with a
// ValidationError to protect against unindexed full scans.
type SearchQuery struct {
	Text     string
	SourceID int64 // optional, 0 means all sources
	Limit    int   // optional, 0 means DefaultSearchLimit
}

// MinSearchLength is the shortest accepted search query.
const MinSearchLength = 3

// DefaultSearchLimit caps search results when the caller does not.
const DefaultSearchLimit = 50

// CorpusStats aggregates corpus-wide counters.
type CorpusStats struct {
	Chapters         int
	Verses           int
	Translations     int
	ApprovedCount    int
	TranslatedVerses int
	Recitations      int
	VersesWithAudio  int
	ActiveSources    int
	ActiveReciters   int
	TotalAudioBytes  int64
}

// ExportRow is one row of a chapter translation export. Verses lacking a
// translation still appear with empty translation fields.
type ExportRow struct {
	PositionInChapter int    `json:"verse_number"`
	VerseText         string `json:"text"`
	Translation       string `json:"translation"`
	SourceName        string `json:"source_name"`
	LanguageCode      string `json:"language_code"`
}

// ExportFormat selects the encoding of a bulk export.
type ExportFormat string

const (
	// FormatJSON encodes export rows as one structured JSON document.
	FormatJSON ExportFormat = "json"
	// FormatCSV encodes export rows as delimited text with a header row.
	// Fields containing the delimiter are quoted.
	FormatCSV ExportFormat = "csv"
)

// ImportRow is one row of a bulk translation import.
type ImportRow struct {
	ChapterID         int
	PositionInChapter int
	Translation       string
}

// RowError identifies a failed import row. Row numbering is 1-based; for
// delimited input it is the physical input line, header row included, so
// the number points at the offending line of the source file.
type RowError struct {
	Row               int    `json:"row"`
	ChapterID         int    `json:"chapter_id,omitempty"`
	PositionInChapter int    `json:"verse_number,omitempty"`
	Msg               string `json:"message"`
}

// ImportResult is the normal successful return of a bulk import,
// describing a mixed outcome. It is not an error: the batch always runs
// to completion and failed rows never abort subsequent rows.
type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ActivityEntry is one append-only audit record. Recording an entry must
// never fail the primary operation it describes.
type ActivityEntry struct {
	ActorID    int64
	Action     string
	EntityType string
	EntityID   int64
	OldValues  any
	NewValues  any
	RemoteAddr string
	Client     string
}

// ActivityQuery filters and paginates the audit trail.
type ActivityQuery struct {
	ActorID int64 // optional
	Action  string
	Page    int
	Limit   int
}

// ActivityPage is one page of audit records with pagination info.
type ActivityPage struct {
	Records []schema.ActivityRecord
	Page    int
	Limit   int
	Total   int
	Pages   int
}
