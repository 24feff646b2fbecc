// Package ioannot implements the corpus.Annotations contract:
// upsert-semantics storage for translations and recitations keyed by
// (verse, source) and (verse, reciter). Verse ids are foreign, read-only
// references; this package never creates corpus rows.
package ioannot

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
	"github.com/mushafdb/mushafdb/pkg/schema"
)

// store implements corpus.Annotations.
type store struct {
	operator db.Operator
	files    FileRemover
}

// FileRemover removes a stored media file. Removal is advisory: the
// database row is the authoritative state and removal failures are
// logged, never propagated.
type FileRemover interface {
	Remove(path string) error
}

// New creates an annotation store. files may be nil when recitation file
// cleanup is not needed (tests, import-only tooling).
func New(op db.Operator, files FileRemover) corpus.Annotations {
	return &store{operator: op, files: files}
}

// Sources lists active translation sources with language metadata.
func (s *store) Sources(ctx context.Context) ([]corpus.SourceRecord, error) {
	query := `SELECT
			src.id, src.name, src.author, src.language_id, src.is_active,
			l.name, l.code, l.direction
		FROM sources src
		JOIN languages l ON src.language_id = l.id
		WHERE src.is_active
		ORDER BY l.name, src.name`

	rows, err := s.operator.Pool().Query(ctx, query)
	if err != nil {
		return nil, corpus.NewStorageError("get sources", err)
	}
	defer rows.Close()

	var res []corpus.SourceRecord
	for rows.Next() {
		var r corpus.SourceRecord
		err := rows.Scan(
			&r.ID, &r.Name, &r.Author, &r.LanguageID, &r.IsActive,
			&r.LanguageName, &r.LanguageCode, &r.LanguageDirection,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan source", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("get sources", err)
	}

	return res, nil
}

// Reciters lists active reciters ordered by name.
func (s *store) Reciters(ctx context.Context) ([]schema.Reciter, error) {
	query := `SELECT id, name, style, is_active
		FROM reciters
		WHERE is_active
		ORDER BY name`

	rows, err := s.operator.Pool().Query(ctx, query)
	if err != nil {
		return nil, corpus.NewStorageError("get reciters", err)
	}
	defer rows.Close()

	var res []schema.Reciter
	for rows.Next() {
		var r schema.Reciter
		if err := rows.Scan(&r.ID, &r.Name, &r.Style, &r.IsActive); err != nil {
			return nil, corpus.NewStorageError("scan reciter", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("get reciters", err)
	}

	return res, nil
}

// UpsertTranslation inserts or updates the translation for a
// (verse, source) pair. The uniqueness constraint on the pair makes this
// a single indivisible statement; two concurrent editors cannot produce
// duplicate rows.
func (s *store) UpsertTranslation(
	ctx context.Context,
	verseID, sourceID int64,
	text, footnotes string,
	approved bool,
	approvedBy int64,
) error {
	if text == "" {
		return corpus.NewValidationError("translation text",
			"must not be empty")
	}

	query := `INSERT INTO translations
		(verse_id, source_id, text, footnotes, is_approved,
		 approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN $5 THEN $6 END,
			CASE WHEN $5 THEN NOW() END,
			NOW(), NOW())
		ON CONFLICT (verse_id, source_id) DO UPDATE SET
			text = EXCLUDED.text,
			footnotes = EXCLUDED.footnotes,
			is_approved = EXCLUDED.is_approved,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()`

	_, err := s.operator.Pool().Exec(ctx, query,
		verseID, sourceID, text, footnotes, approved, nullableID(approvedBy))
	if err != nil {
		if isForeignKeyViolation(err) {
			return s.missingTranslationRef(ctx, verseID, sourceID)
		}
		return corpus.NewStorageError("upsert translation", err)
	}

	return nil
}

// missingTranslationRef identifies which side of a failed translation
// write does not exist, so the caller gets a diagnostic instead of a
// bare constraint violation. The constraint already fired, so even when
// a probe fails the outcome stays a ReferenceError.
func (s *store) missingTranslationRef(
	ctx context.Context,
	verseID, sourceID int64,
) error {
	ok, err := s.rowExists(ctx, `SELECT 1 FROM verses WHERE id = $1`, verseID)
	if err == nil && !ok {
		return corpus.NewReferenceError("verse", verseID)
	}
	ok, err = s.rowExists(ctx, `SELECT 1 FROM sources WHERE id = $1`, sourceID)
	if err == nil && !ok {
		return corpus.NewReferenceError("source", sourceID)
	}
	return corpus.NewReferenceError("verse", verseID)
}

const translationColumns = `t.id, t.verse_id, t.source_id, t.text,
	t.footnotes, t.is_approved, t.approved_by, t.approved_at,
	t.created_at, t.updated_at`

// TranslationsForVerse returns all translations of one verse with source
// and language metadata.
func (s *store) TranslationsForVerse(
	ctx context.Context,
	verseID int64,
) ([]corpus.TranslationRecord, error) {
	query := `SELECT ` + translationColumns + `,
			v.chapter_id, v.position_in_chapter, v.position_in_mushaf,
			v.text_arabic, src.name, l.code
		FROM translations t
		JOIN verses v ON t.verse_id = v.id
		JOIN sources src ON t.source_id = src.id
		JOIN languages l ON src.language_id = l.id
		WHERE t.verse_id = $1
		ORDER BY l.name, src.name`

	return s.queryTranslations(ctx, query, verseID)
}

// ByChapterAndSource returns one source's translations for a whole
// chapter ordered by position.
func (s *store) ByChapterAndSource(
	ctx context.Context,
	chapterID int,
	sourceID int64,
) ([]corpus.TranslationRecord, error) {
	if chapterID < 1 || chapterID > corpus.ChapterCount {
		return nil, corpus.NewValidationError("chapter id",
			"must be between 1 and %d, got %d",
			corpus.ChapterCount, chapterID)
	}

	query := `SELECT ` + translationColumns + `,
			v.chapter_id, v.position_in_chapter, v.position_in_mushaf,
			v.text_arabic, src.name, l.code
		FROM translations t
		JOIN verses v ON t.verse_id = v.id
		JOIN sources src ON t.source_id = src.id
		JOIN languages l ON src.language_id = l.id
		WHERE v.chapter_id = $1 AND t.source_id = $2
		ORDER BY v.position_in_chapter`

	return s.queryTranslations(ctx, query, chapterID, sourceID)
}

// queryTranslations runs a translation-record query and scans results.
func (s *store) queryTranslations(
	ctx context.Context,
	query string,
	args ...any,
) ([]corpus.TranslationRecord, error) {
	rows, err := s.operator.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, corpus.NewStorageError("query translations", err)
	}
	defer rows.Close()

	var res []corpus.TranslationRecord
	for rows.Next() {
		var r corpus.TranslationRecord
		err := rows.Scan(
			&r.ID, &r.VerseID, &r.SourceID, &r.Text,
			&r.Footnotes, &r.IsApproved, &r.ApprovedBy, &r.ApprovedAt,
			&r.CreatedAt, &r.UpdatedAt,
			&r.ChapterID, &r.PositionInChapter, &r.PositionInMushaf,
			&r.VerseText, &r.SourceName, &r.LanguageCode,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan translation", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("query translations", err)
	}

	return res, nil
}

// rowExists reports whether a single-arg existence query matches. A
// storage failure is returned separately so callers do not mistake it
// for a missing row.
func (s *store) rowExists(
	ctx context.Context,
	query string,
	id int64,
) (bool, error) {
	var one int
	err := s.operator.Pool().QueryRow(ctx, query, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, corpus.NewStorageError("check reference", err)
	}
	return true, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
