package iopopulate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// verify checks the populated corpus against the canonical shape: 114
// chapters, 6236 verses, and per-chapter verse counts matching each
// chapter's declared count. Per-chapter checks run concurrently bounded
// by JobsNumber.
func (p *populator) verify(ctx context.Context) error {
	var chapters, verses int
	err := p.operator.Pool().QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM chapters),
			(SELECT count(*) FROM verses)`,
	).Scan(&chapters, &verses)
	if err != nil {
		return corpus.NewStorageError("verify corpus", err)
	}

	if chapters != corpus.ChapterCount {
		return VerifyError(fmt.Sprintf(
			"expected %d chapters, got %d", corpus.ChapterCount, chapters))
	}
	if verses != corpus.VerseCount {
		return VerifyError(fmt.Sprintf(
			"expected %d verses, got %d", corpus.VerseCount, verses))
	}

	type declared struct {
		chapterID  int
		verseCount int
	}

	rows, err := p.operator.Pool().Query(ctx,
		"SELECT id, verse_count FROM chapters ORDER BY id")
	if err != nil {
		return corpus.NewStorageError("verify corpus", err)
	}

	var decls []declared
	for rows.Next() {
		var d declared
		if err = rows.Scan(&d.chapterID, &d.verseCount); err != nil {
			rows.Close()
			return corpus.NewStorageError("verify corpus", err)
		}
		decls = append(decls, d)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return corpus.NewStorageError("verify corpus", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.JobsNumber)

	var mu sync.Mutex
	var mismatches []string

	for _, d := range decls {
		d := d
		g.Go(func() error {
			var got int
			err := p.operator.Pool().QueryRow(ctx,
				"SELECT count(*) FROM verses WHERE chapter_id = $1",
				d.chapterID).Scan(&got)
			if err != nil {
				return corpus.NewStorageError("verify chapter", err)
			}
			if got != d.verseCount {
				mu.Lock()
				mismatches = append(mismatches, fmt.Sprintf(
					"chapter %d declares %d verses, has %d",
					d.chapterID, d.verseCount, got))
				mu.Unlock()
			}
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return err
	}

	if len(mismatches) > 0 {
		for _, m := range mismatches {
			slog.Error("Verse count mismatch", "detail", m)
		}
		return VerifyError(fmt.Sprintf(
			"%d chapters have verse count mismatches", len(mismatches)))
	}

	slog.Info("Corpus verified",
		"chapters", chapters,
		"verses", verses)
	return nil
}
