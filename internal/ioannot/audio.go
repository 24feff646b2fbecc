package ioannot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// UpsertRecitation inserts or replaces the recitation for a
// (verse, reciter) pair and returns the row id. Both references are
// verified before the write so a bad id surfaces as a ReferenceError
// naming the missing side instead of silently corrupting the catalog.
func (s *store) UpsertRecitation(
	ctx context.Context,
	up corpus.RecitationUpload,
) (int64, error) {
	if up.FilePath == "" {
		return 0, corpus.NewValidationError("file path", "must not be empty")
	}

	ok, err := s.rowExists(ctx, `SELECT 1 FROM verses WHERE id = $1`,
		up.VerseID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, corpus.NewReferenceError("verse", up.VerseID)
	}
	ok, err = s.rowExists(ctx, `SELECT 1 FROM reciters WHERE id = $1`,
		up.ReciterID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, corpus.NewReferenceError("reciter", up.ReciterID)
	}

	query := `INSERT INTO recitations
		(verse_id, reciter_id, file_path, file_name, file_size,
		 format, is_active, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, NOW())
		ON CONFLICT (verse_id, reciter_id) DO UPDATE SET
			file_path = EXCLUDED.file_path,
			file_name = EXCLUDED.file_name,
			file_size = EXCLUDED.file_size,
			format = EXCLUDED.format,
			is_active = TRUE,
			uploaded_by = EXCLUDED.uploaded_by,
			uploaded_at = NOW()
		RETURNING id`

	var id int64
	err = s.operator.Pool().QueryRow(ctx, query,
		up.VerseID, up.ReciterID, up.FilePath, up.FileName,
		up.FileSize, up.Format, up.UploadedBy,
	).Scan(&id)
	if err != nil {
		// The pre-check races with concurrent deletes; a late
		// constraint violation still maps to the missing reference.
		if isForeignKeyViolation(err) {
			ok, exErr := s.rowExists(ctx,
				`SELECT 1 FROM verses WHERE id = $1`, up.VerseID)
			if exErr == nil && !ok {
				return 0, corpus.NewReferenceError("verse", up.VerseID)
			}
			return 0, corpus.NewReferenceError("reciter", up.ReciterID)
		}
		return 0, corpus.NewStorageError("upsert recitation", err)
	}

	return id, nil
}

// RecitationsForVerse returns active recitations of one verse with
// reciter names.
func (s *store) RecitationsForVerse(
	ctx context.Context,
	verseID int64,
) ([]corpus.RecitationRecord, error) {
	query := `SELECT
			rec.id, rec.verse_id, rec.reciter_id, rec.file_path,
			rec.file_name, rec.file_size, rec.format, rec.is_active,
			rec.uploaded_by, rec.uploaded_at, r.name
		FROM recitations rec
		JOIN reciters r ON rec.reciter_id = r.id
		WHERE rec.verse_id = $1 AND rec.is_active
		ORDER BY r.name`

	rows, err := s.operator.Pool().Query(ctx, query, verseID)
	if err != nil {
		return nil, corpus.NewStorageError("get recitations", err)
	}
	defer rows.Close()

	var res []corpus.RecitationRecord
	for rows.Next() {
		var r corpus.RecitationRecord
		err := rows.Scan(
			&r.ID, &r.VerseID, &r.ReciterID, &r.FilePath,
			&r.FileName, &r.FileSize, &r.Format, &r.IsActive,
			&r.UploadedBy, &r.UploadedAt, &r.ReciterName,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan recitation", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("get recitations", err)
	}

	return res, nil
}

// DeleteRecitation removes the database row, then attempts best-effort
// removal of the stored file. The row removal is authoritative; a failed
// file removal is logged and swallowed.
func (s *store) DeleteRecitation(
	ctx context.Context,
	recitationID int64,
) error {
	var filePath string
	err := s.operator.Pool().QueryRow(ctx,
		`DELETE FROM recitations WHERE id = $1 RETURNING file_path`,
		recitationID,
	).Scan(&filePath)
	if errors.Is(err, pgx.ErrNoRows) {
		return corpus.NewNotFoundError("recitation", recitationID)
	}
	if err != nil {
		return corpus.NewStorageError("delete recitation", err)
	}

	if s.files != nil && filePath != "" {
		if err := s.files.Remove(filePath); err != nil {
			slog.Warn("Could not remove recitation file",
				"path", filePath, "error", err)
		}
	}

	return nil
}

// AudioStatusForChapter reports recitation coverage for every verse of a
// chapter in a single aggregated query.
func (s *store) AudioStatusForChapter(
	ctx context.Context,
	chapterID int,
) ([]corpus.AudioStatus, error) {
	if chapterID < 1 || chapterID > corpus.ChapterCount {
		return nil, corpus.NewValidationError("chapter id",
			"must be between 1 and %d, got %d",
			corpus.ChapterCount, chapterID)
	}

	query := `SELECT
			v.id, v.position_in_chapter,
			COUNT(rec.id), MAX(rec.uploaded_at)
		FROM verses v
		LEFT JOIN recitations rec
			ON rec.verse_id = v.id AND rec.is_active
		WHERE v.chapter_id = $1
		GROUP BY v.id, v.position_in_chapter
		ORDER BY v.position_in_chapter`

	rows, err := s.operator.Pool().Query(ctx, query, chapterID)
	if err != nil {
		return nil, corpus.NewStorageError("audio status", err)
	}
	defer rows.Close()

	var res []corpus.AudioStatus
	for rows.Next() {
		var st corpus.AudioStatus
		err := rows.Scan(
			&st.VerseID, &st.PositionInChapter,
			&st.AudioCount, &st.LatestUpload,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan audio status", err)
		}
		st.HasAudio = st.AudioCount > 0
		res = append(res, st)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("audio status", err)
	}

	return res, nil
}
