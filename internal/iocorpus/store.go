// Package iocorpus implements the corpus.Store contract: durable storage
// of chapters and verses with positional integrity. This is an impure
// I/O package executing SQL through pgxpool.
package iocorpus

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
	"github.com/mushafdb/mushafdb/pkg/schema"
)

// store implements corpus.Store.
type store struct {
	operator db.Operator
}

// New creates a corpus store backed by the given database operator.
func New(op db.Operator) corpus.Store {
	return &store{operator: op}
}

const chapterColumns = `id, name_arabic, name_english, name_transliterated,
	revelation_type, verse_count, has_basmala`

const verseColumns = `id, chapter_id, position_in_chapter,
	position_in_mushaf, text_arabic, text_uthmani,
	juz_number, hizb_number, ruku_number, updated_at`

// checkChapterID distinguishes out-of-range ids (ValidationError) from
// ids that are in range but absent (NotFoundError, reported by lookups).
func checkChapterID(id int) error {
	if id < 1 || id > corpus.ChapterCount {
		return corpus.NewValidationError("chapter id",
			"must be between 1 and %d, got %d", corpus.ChapterCount, id)
	}
	return nil
}

// GetChapter returns a chapter by id.
func (s *store) GetChapter(
	ctx context.Context,
	id int,
) (*schema.Chapter, error) {
	if err := checkChapterID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE id = $1`

	var ch schema.Chapter
	err := s.operator.Pool().QueryRow(ctx, query, id).Scan(
		&ch.ID, &ch.NameArabic, &ch.NameEnglish, &ch.NameTransliterated,
		&ch.RevelationType, &ch.VerseCount, &ch.HasBasmala,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, corpus.NewNotFoundError("chapter", int64(id))
	}
	if err != nil {
		return nil, corpus.NewStorageError("get chapter", err)
	}

	return &ch, nil
}

// GetChapters returns all chapters ordered by id.
func (s *store) GetChapters(ctx context.Context) ([]schema.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters ORDER BY id`

	rows, err := s.operator.Pool().Query(ctx, query)
	if err != nil {
		return nil, corpus.NewStorageError("get chapters", err)
	}
	defer rows.Close()

	var res []schema.Chapter
	for rows.Next() {
		var ch schema.Chapter
		err := rows.Scan(
			&ch.ID, &ch.NameArabic, &ch.NameEnglish,
			&ch.NameTransliterated, &ch.RevelationType,
			&ch.VerseCount, &ch.HasBasmala,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan chapter", err)
		}
		res = append(res, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("get chapters", err)
	}

	return res, nil
}

// GetChapterWithVerses returns a chapter with its ordered verses, each
// carrying a derived HasAudio flag. Audio coverage comes from one
// aggregated query for the whole chapter; fetching it per verse would
// collapse under load.
func (s *store) GetChapterWithVerses(
	ctx context.Context,
	id int,
) (*corpus.ChapterWithVerses, error) {
	ch, err := s.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + verseColumns + `
		FROM verses
		WHERE chapter_id = $1
		ORDER BY position_in_chapter`

	rows, err := s.operator.Pool().Query(ctx, query, id)
	if err != nil {
		return nil, corpus.NewStorageError("get verses", err)
	}
	defer rows.Close()

	var verses []corpus.VerseView
	for rows.Next() {
		var v schema.Verse
		if err := scanVerse(rows, &v); err != nil {
			return nil, err
		}
		verses = append(verses, corpus.VerseView{Verse: v})
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("get verses", err)
	}

	// One batched audio lookup for the whole chapter.
	audioQuery := `SELECT v.id
		FROM verses v
		JOIN recitations r ON r.verse_id = v.id AND r.is_active
		WHERE v.chapter_id = $1
		GROUP BY v.id`

	audioRows, err := s.operator.Pool().Query(ctx, audioQuery, id)
	if err != nil {
		return nil, corpus.NewStorageError("get audio coverage", err)
	}
	defer audioRows.Close()

	withAudio := make(map[int64]bool)
	for audioRows.Next() {
		var verseID int64
		if err := audioRows.Scan(&verseID); err != nil {
			return nil, corpus.NewStorageError("scan audio coverage", err)
		}
		withAudio[verseID] = true
	}
	if err := audioRows.Err(); err != nil {
		return nil, corpus.NewStorageError("get audio coverage", err)
	}

	for i := range verses {
		verses[i].HasAudio = withAudio[verses[i].ID]
	}

	return &corpus.ChapterWithVerses{Chapter: *ch, Verses: verses}, nil
}

// UpdateVerseText updates a verse's primary and alternate text in one
// statement and returns the updated verse.
func (s *store) UpdateVerseText(
	ctx context.Context,
	verseID int64,
	primary, alternate string,
) (*corpus.VerseView, error) {
	if primary == "" {
		return nil, corpus.NewValidationError("primary text",
			"must not be empty")
	}
	if alternate == "" {
		alternate = primary
	}

	query := `UPDATE verses
		SET text_arabic = $1, text_uthmani = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + verseColumns

	var v schema.Verse
	row := s.operator.Pool().QueryRow(ctx, query, primary, alternate, verseID)
	if err := scanVerse(row, &v); err != nil {
		var nf *corpus.NotFoundError
		if errors.As(err, &nf) {
			return nil, corpus.NewNotFoundError("verse", verseID)
		}
		return nil, err
	}

	return &corpus.VerseView{Verse: v}, nil
}

// ResolveVerse returns the verse at (chapter, position) without any
// provisioning side effects.
func (s *store) ResolveVerse(
	ctx context.Context,
	chapterID, position int,
) (*corpus.VerseView, error) {
	if err := checkChapterID(chapterID); err != nil {
		return nil, err
	}
	if position < 1 {
		return nil, corpus.NewValidationError("position in chapter",
			"must be 1 or greater, got %d", position)
	}

	query := `SELECT ` + verseColumns + `
		FROM verses
		WHERE chapter_id = $1 AND position_in_chapter = $2`

	var v schema.Verse
	row := s.operator.Pool().QueryRow(ctx, query, chapterID, position)
	if err := scanVerse(row, &v); err != nil {
		return nil, err
	}

	return &corpus.VerseView{Verse: v}, nil
}

// ProvisionVerse creates a placeholder verse at (chapter, position) when
// none exists. The corpus-wide position is approximated as
// (chapter-1)*100 + position; when that address is already committed the
// insert fails loudly with a ConflictError instead of fabricating a
// duplicate. Exposed strictly for workflows that must guarantee a verse
// row exists before attaching an annotation.
func (s *store) ProvisionVerse(
	ctx context.Context,
	chapterID, position int,
) (*corpus.VerseView, error) {
	existing, err := s.ResolveVerse(ctx, chapterID, position)
	if err == nil {
		return existing, nil
	}
	var nf *corpus.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	approx := (chapterID-1)*100 + position
	if approx > corpus.VerseCount {
		approx = corpus.VerseCount
	}

	query := `INSERT INTO verses
		(chapter_id, position_in_chapter, position_in_mushaf,
		 text_arabic, text_uthmani, updated_at)
		VALUES ($1, $2, $3, $4, $4, NOW())
		RETURNING ` + verseColumns

	var v schema.Verse
	row := s.operator.Pool().QueryRow(ctx, query,
		chapterID, position, approx, corpus.PlaceholderText)
	if err := scanVerse(row, &v); err != nil {
		if holder, ok := s.mushafPositionHolder(ctx, approx); ok {
			return nil, corpus.NewConflictError(holder,
				"position in mushaf",
				"approximated position %d is already committed", approx)
		}
		return nil, err
	}

	slog.Warn("Provisioned placeholder verse with approximated position",
		"chapter_id", chapterID,
		"position_in_chapter", position,
		"position_in_mushaf", approx)

	return &corpus.VerseView{Verse: v}, nil
}

// mushafPositionHolder reports which verse currently occupies a
// corpus-wide position.
func (s *store) mushafPositionHolder(
	ctx context.Context,
	position int,
) (int64, bool) {
	var id int64
	err := s.operator.Pool().QueryRow(ctx,
		`SELECT id FROM verses WHERE position_in_mushaf = $1`,
		position).Scan(&id)
	if err != nil {
		return 0, false
	}
	return id, true
}

// DeleteVerse removes a verse and every annotation referencing it inside
// one transaction. The cascade is explicit so the contract stays
// verifiable independent of storage-engine foreign key settings.
func (s *store) DeleteVerse(ctx context.Context, verseID int64) error {
	pool := s.operator.Pool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return corpus.NewStorageError("delete verse", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM translations WHERE verse_id = $1`, verseID); err != nil {
		return corpus.NewStorageError("delete verse translations", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM recitations WHERE verse_id = $1`, verseID); err != nil {
		return corpus.NewStorageError("delete verse recitations", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM verses WHERE id = $1`, verseID)
	if err != nil {
		return corpus.NewStorageError("delete verse", err)
	}
	if tag.RowsAffected() == 0 {
		return corpus.NewNotFoundError("verse", verseID)
	}

	if err := tx.Commit(ctx); err != nil {
		return corpus.NewStorageError("delete verse", err)
	}

	return nil
}

// Stats returns corpus-wide aggregate counters.
func (s *store) Stats(ctx context.Context) (*corpus.CorpusStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM chapters),
		(SELECT COUNT(*) FROM verses),
		(SELECT COUNT(*) FROM translations),
		(SELECT COUNT(*) FROM translations WHERE is_approved),
		(SELECT COUNT(DISTINCT verse_id) FROM translations),
		(SELECT COUNT(*) FROM recitations WHERE is_active),
		(SELECT COUNT(DISTINCT verse_id) FROM recitations WHERE is_active),
		(SELECT COUNT(*) FROM sources WHERE is_active),
		(SELECT COUNT(*) FROM reciters WHERE is_active),
		(SELECT COALESCE(SUM(file_size), 0) FROM recitations WHERE is_active)`

	var st corpus.CorpusStats
	err := s.operator.Pool().QueryRow(ctx, query).Scan(
		&st.Chapters, &st.Verses, &st.Translations, &st.ApprovedCount,
		&st.TranslatedVerses, &st.Recitations, &st.VersesWithAudio,
		&st.ActiveSources, &st.ActiveReciters, &st.TotalAudioBytes,
	)
	if err != nil {
		return nil, corpus.NewStorageError("corpus stats", err)
	}

	return &st, nil
}

// scanVerse scans a verse row, mapping pgx.ErrNoRows to NotFoundError.
func scanVerse(row pgx.Row, v *schema.Verse) error {
	err := row.Scan(
		&v.ID, &v.ChapterID, &v.PositionInChapter, &v.PositionInMushaf,
		&v.TextArabic, &v.TextUthmani,
		&v.JuzNumber, &v.HizbNumber, &v.RukuNumber, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return corpus.NewNotFoundError("verse", 0)
	}
	if err != nil {
		return corpus.NewStorageError("scan verse", err)
	}
	return nil
}
