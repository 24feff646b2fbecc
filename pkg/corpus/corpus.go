package corpus

import (
	"context"
	"io"

	"github.com/mushafdb/mushafdb/pkg/schema"
)

// Store exposes chapters and verses with guaranteed positional integrity.
// It owns the Chapter/Verse lifecycle exclusively; annotations treat verse
// ids as foreign, read-only references.
type Store interface {
	// GetChapter returns a chapter by id. An id outside 1..114 is a
	// ValidationError, a missing row inside the range is a NotFoundError.
	GetChapter(ctx context.Context, id int) (*schema.Chapter, error)

	// GetChapters returns all chapters ordered by id, without verses.
	GetChapters(ctx context.Context) ([]schema.Chapter, error)

	// GetChapterWithVerses returns a chapter with its verses ordered by
	// position within the chapter. Every verse carries a derived HasAudio
	// flag aggregated in a single batched query.
	GetChapterWithVerses(ctx context.Context, id int) (*ChapterWithVerses, error)

	// UpdateVerseText updates a verse's primary and alternate script
	// text. Empty primary text is a ValidationError; alternate text
	// defaults to the primary when omitted. Returns the updated verse.
	UpdateVerseText(ctx context.Context, verseID int64, primary, alternate string) (*VerseView, error)

	// ResolveVerse returns the verse at (chapter, position), or a
	// NotFoundError. Read paths never provision.
	ResolveVerse(ctx context.Context, chapterID, position int) (*VerseView, error)

	// ProvisionVerse creates a placeholder verse at (chapter, position)
	// when none exists, using an approximated corpus-wide position and
	// PlaceholderText as its primary text. The
	// approximation is a heuristic, not a guarantee: if it collides with
	// a committed verse the operation fails with a ConflictError instead
	// of fabricating a duplicate. Callers must opt into this explicitly.
	ProvisionVerse(ctx context.Context, chapterID, position int) (*VerseView, error)

	// DeleteVerse removes a verse and cascades to every translation and
	// recitation referencing it. The cascade is an explicit, tested
	// operation, not an assumed storage-engine side effect.
	DeleteVerse(ctx context.Context, verseID int64) error

	// Stats returns corpus-wide aggregate counters in one query.
	Stats(ctx context.Context) (*CorpusStats, error)
}

// Annotations is upsert-semantics storage for translations and
// recitations, scoped per (verse, source) and (verse, reciter).
type Annotations interface {
	// Sources lists active translation sources with language metadata,
	// ordered by language name then source name.
	Sources(ctx context.Context) ([]SourceRecord, error)

	// Reciters lists active reciters ordered by name.
	Reciters(ctx context.Context) ([]schema.Reciter, error)

	// UpsertTranslation inserts or updates the translation for a
	// (verse, source) pair in a single statement. Empty text is a
	// ValidationError.
	UpsertTranslation(ctx context.Context, verseID, sourceID int64, text, footnotes string, approved bool, approvedBy int64) error

	// TranslationsForVerse returns all translations of one verse with
	// source and language metadata, ordered by language then source.
	TranslationsForVerse(ctx context.Context, verseID int64) ([]TranslationRecord, error)

	// ByChapterAndSource returns one source's translations for a whole
	// chapter ordered by position within the chapter.
	ByChapterAndSource(ctx context.Context, chapterID int, sourceID int64) ([]TranslationRecord, error)

	// Search finds translations whose text contains the query string.
	// Queries shorter than MinSearchLength are a ValidationError.
	Search(ctx context.Context, q SearchQuery) ([]TranslationRecord, error)

	// UpsertRecitation inserts or replaces the recitation for a
	// (verse, reciter) pair. Both references are verified before the
	// write; a missing one is a ReferenceError naming the missing side.
	// Returns the recitation row id.
	UpsertRecitation(ctx context.Context, up RecitationUpload) (int64, error)

	// RecitationsForVerse returns active recitations of one verse with
	// reciter names.
	RecitationsForVerse(ctx context.Context, verseID int64) ([]RecitationRecord, error)

	// DeleteRecitation removes the row and attempts best-effort removal
	// of the stored file. File removal failure is logged, never
	// propagated: the database row is the authoritative state.
	DeleteRecitation(ctx context.Context, recitationID int64) error

	// AudioStatusForChapter reports recitation coverage for every verse
	// of a chapter in a single aggregated query.
	AudioStatusForChapter(ctx context.Context, chapterID int) ([]AudioStatus, error)
}

// Reindexer validates and applies changes to a verse's structural address
// as one atomic, conflict-checked operation.
type Reindexer interface {
	// Reindex drives a proposal from PROPOSED through VALIDATED to
	// COMMITTED, or rejects it.
	// Validation failures surface as ValidationError or ConflictError
	// (naming the colliding verse); a verse that vanished between
	// validation and commit surfaces as NotFoundError.
	Reindex(ctx context.Context, req *ReindexRequest) error
}

// Exchanger imports and exports annotations in row-oriented form,
// tolerating row-level failure without aborting the whole batch.
type Exchanger interface {
	// ExportChapter writes one chapter's translations to w, ordered by
	// position ascending, left-joined so verses lacking a translation
	// still appear. sourceID 0 exports all sources.
	ExportChapter(ctx context.Context, chapterID int, sourceID int64, format ExportFormat, w io.Writer) error

	// ImportRows upserts translations row by row. Per-row failures are
	// collected and do not abort subsequent rows; the batch runs to
	// completion unless ctx is cancelled between rows.
	ImportRows(ctx context.Context, rows []ImportRow, sourceID int64) (*ImportResult, error)

	// ImportCSV parses delimited input (header row skipped, quoted
	// fields honored) and imports it via ImportRows. Malformed rows are
	// row-level errors, not batch aborts.
	ImportCSV(ctx context.Context, r io.Reader, sourceID int64) (*ImportResult, error)
}

// Recorder appends to the audit trail. Record must never fail the primary
// operation: failures are logged and swallowed.
type Recorder interface {
	Record(ctx context.Context, e ActivityEntry)
	List(ctx context.Context, q ActivityQuery) (*ActivityPage, error)
}

// Populator bootstraps the corpus from a canonical snapshot and seeds
// translation sources and reciters.
type Populator interface {
	Populate(ctx context.Context) error
}

// SchemaManager handles database schema creation and migration.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	Create(ctx context.Context) error
	Migrate(ctx context.Context) error
}
