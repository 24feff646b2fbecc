// Package ioreindex implements the corpus.Reindexer contract: validating
// and applying changes to a verse's structural address as one atomic,
// conflict-checked operation. This is the one place collision detection
// lives.
package ioreindex

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// engine implements corpus.Reindexer.
type engine struct {
	operator db.Operator
}

// New creates a reindexing engine backed by the given database operator.
func New(op db.Operator) corpus.Reindexer {
	return &engine{operator: op}
}

// Reindex drives a request from PROPOSED through VALIDATED to COMMITTED, or
// rejects it. Collision checks always read current committed state; the
// final commit is conditional on "still no collision, and the row still
// exists", so a lost race fails loudly instead of corrupting state.
func (e *engine) Reindex(
	ctx context.Context,
	req *corpus.ReindexRequest,
) error {
	if req.State != corpus.StateProposed {
		return corpus.NewValidationError("reindex request",
			"already processed (state %s)", req.State)
	}

	if err := e.validate(ctx, req); err != nil {
		req.State = corpus.StateRejected
		req.Err = err
		return err
	}
	req.State = corpus.StateValidated

	if err := e.commit(ctx, req); err != nil {
		req.State = corpus.StateRejected
		req.Err = err
		return err
	}
	req.State = corpus.StateCommitted

	return nil
}

// validate runs the range checks and the combined collision lookup.
func (e *engine) validate(
	ctx context.Context,
	req *corpus.ReindexRequest,
) error {
	if err := req.Target.ValidateRanges(); err != nil {
		return err
	}
	return e.checkCollision(ctx, req.VerseID, req.Target)
}

// checkCollision looks for another verse occupying either the
// (chapter, position) address or the corpus-wide position in a single
// query against committed state.
func (e *engine) checkCollision(
	ctx context.Context,
	verseID int64,
	t corpus.VerseAddress,
) error {
	query := `SELECT id, chapter_id, position_in_chapter, position_in_mushaf
		FROM verses
		WHERE (
			(chapter_id = $1 AND position_in_chapter = $2)
			OR position_in_mushaf = $3
		) AND id != $4
		LIMIT 1`

	var (
		otherID                int64
		otherChapter, otherPos int
		otherMushaf            int
	)
	err := e.operator.Pool().QueryRow(ctx, query,
		t.ChapterID, t.PositionInChapter, t.PositionInMushaf, verseID,
	).Scan(&otherID, &otherChapter, &otherPos, &otherMushaf)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return corpus.NewStorageError("collision check", err)
	}

	if otherChapter == t.ChapterID && otherPos == t.PositionInChapter {
		return corpus.NewConflictError(otherID, "chapter position",
			"chapter %d position %d", t.ChapterID, t.PositionInChapter)
	}
	return corpus.NewConflictError(otherID, "position in mushaf",
		"position %d", t.PositionInMushaf)
}

// commit applies all three address fields plus the updated timestamp in
// one conditional statement. The guard repeats the collision predicate,
// closing the TOCTOU window between validation and commit: either the
// write succeeds against current state or it affects zero rows.
func (e *engine) commit(
	ctx context.Context,
	req *corpus.ReindexRequest,
) error {
	query := `UPDATE verses
		SET chapter_id = $1, position_in_chapter = $2,
			position_in_mushaf = $3, updated_at = NOW()
		WHERE id = $4
		AND NOT EXISTS (
			SELECT 1 FROM verses o
			WHERE (
				(o.chapter_id = $1 AND o.position_in_chapter = $2)
				OR o.position_in_mushaf = $3
			) AND o.id != $4
		)`

	t := req.Target
	tag, err := e.operator.Pool().Exec(ctx, query,
		t.ChapterID, t.PositionInChapter, t.PositionInMushaf, req.VerseID)
	if err != nil {
		// A concurrent commit can still trip the unique indexes; that
		// race is a conflict, not a storage failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if collErr := e.checkCollision(ctx, req.VerseID, t); collErr != nil {
				return collErr
			}
		}
		return corpus.NewStorageError("reindex commit", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the verse vanished between validation and commit, or a
		// rival writer claimed the address. Distinguish loudly.
		var one int
		err := e.operator.Pool().QueryRow(ctx,
			`SELECT 1 FROM verses WHERE id = $1`, req.VerseID).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return corpus.NewNotFoundError("verse", req.VerseID)
		}
		if err != nil {
			return corpus.NewStorageError("reindex commit", err)
		}
		if collErr := e.checkCollision(ctx, req.VerseID, t); collErr != nil {
			return collErr
		}
		return corpus.NewStorageError("reindex commit",
			errors.New("conditional update affected no rows"))
	}

	return nil
}
