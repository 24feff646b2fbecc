package iopopulate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// importChapters inserts all snapshot chapters in one parameterized
// statement. The table is small (114 rows) so batching is unnecessary.
func (p *populator) importChapters(
	ctx context.Context,
	snap *snapshot,
) (int, error) {
	chapters, err := snap.chapters()
	if err != nil {
		return 0, err
	}
	if len(chapters) == 0 {
		return 0, SnapshotError("chapters",
			fmt.Errorf("snapshot contains no chapters"))
	}

	var valueStrings []string
	var valueArgs []any
	argIdx := 1

	for _, c := range chapters {
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			argIdx, argIdx+1, argIdx+2, argIdx+3,
			argIdx+4, argIdx+5, argIdx+6,
		))
		valueArgs = append(valueArgs,
			c.id, c.nameArabic, c.nameEnglish.String,
			c.nameTransliterated.String, c.revelationType.String,
			c.verseCount, c.hasBasmala.Bool,
		)
		argIdx += 7
	}

	query := fmt.Sprintf(
		`INSERT INTO chapters
			(id, name_arabic, name_english, name_transliterated,
			 revelation_type, verse_count, has_basmala)
		 VALUES %s`,
		strings.Join(valueStrings, ", "),
	)

	_, err = p.operator.Pool().Exec(ctx, query, valueArgs...)
	if err != nil {
		return 0, corpus.NewStorageError("insert chapters", err)
	}

	return len(chapters), nil
}

// verseColumns is the CopyFrom column list for verses.
var verseColumns = []string{
	"chapter_id", "position_in_chapter", "position_in_mushaf",
	"text_arabic", "text_uthmani",
	"juz_number", "hizb_number", "ruku_number", "updated_at",
}

// importVerses streams verses from the snapshot into PostgreSQL using
// CopyFrom in batches of cfg.Database.BatchSize. A reader goroutine
// scans SQLite while the writer inserts, so the two overlap.
func (p *populator) importVerses(
	ctx context.Context,
	snap *snapshot,
) (int, error) {
	verseCh := make(chan verseRow, p.cfg.Database.BatchSize)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return snap.verses(ctx, verseCh)
	})

	var total int
	g.Go(func() error {
		bar := pb.Full.Start(corpus.VerseCount)
		bar.Set("prefix", "Importing verses: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()

		now := time.Now()
		records := make([][]any, 0, p.cfg.Database.BatchSize)

		flush := func() error {
			if len(records) == 0 {
				return nil
			}
			_, err := p.operator.Pool().CopyFrom(
				ctx,
				pgx.Identifier{"verses"},
				verseColumns,
				pgx.CopyFromRows(records),
			)
			if err != nil {
				return corpus.NewStorageError("copy verses", err)
			}
			total += len(records)
			records = records[:0]
			return nil
		}

		for v := range verseCh {
			uthmani := v.textUthmani.String
			if uthmani == "" {
				uthmani = v.textArabic
			}
			records = append(records, []any{
				v.chapterID, v.positionInChapter, v.positionInMushaf,
				v.textArabic, uthmani,
				v.juzNumber, v.hizbNumber, v.rukuNumber, now,
			})
			bar.Increment()

			if len(records) >= p.cfg.Database.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		return flush()
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return total, nil
}
