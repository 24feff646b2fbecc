// Package iopopulate implements the Populator contract: bootstrapping
// the corpus from a canonical SQLite snapshot and seeding languages,
// translation sources and reciters from sources.yaml. This is an impure
// I/O package that reads snapshot files and performs bulk inserts.
package iopopulate

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// populator implements corpus.Populator.
type populator struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a new Populator.
func New(cfg *config.Config, op db.Operator) corpus.Populator {
	return &populator{cfg: cfg, operator: op}
}

// Populate bootstraps the corpus. Phases: snapshot open, chapters,
// verses, seed data, verification. A corpus that already holds verses is
// refused unless DropExisting is set.
func (p *populator) Populate(ctx context.Context) error {
	pool := p.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	startTime := time.Now()
	slog.Info("Starting corpus population",
		"snapshot", p.cfg.Populate.SnapshotPath)

	if p.cfg.Populate.SnapshotPath == "" {
		return corpus.NewValidationError("snapshot path",
			"must point to a corpus snapshot file")
	}

	populated, err := p.hasVerses(ctx)
	if err != nil {
		return err
	}
	if populated {
		if !p.cfg.Populate.DropExisting {
			return AlreadyPopulatedError()
		}
		if err = p.dropCorpus(ctx); err != nil {
			return err
		}
	}

	snap, err := openSnapshot(p.cfg.Populate.SnapshotPath)
	if err != nil {
		return err
	}
	defer snap.Close()

	chapterNum, err := p.importChapters(ctx, snap)
	if err != nil {
		return err
	}
	slog.Info("Chapters imported", "count", chapterNum)

	verseNum, err := p.importVerses(ctx, snap)
	if err != nil {
		return err
	}
	slog.Info("Verses imported",
		"count", humanize.Comma(int64(verseNum)))

	if err = p.seed(ctx); err != nil {
		return err
	}

	if err = p.verify(ctx); err != nil {
		return err
	}

	slog.Info("Population complete",
		"chapters", chapterNum,
		"verses", verseNum,
		"duration", time.Since(startTime).Round(time.Millisecond).String(),
	)

	return nil
}

func (p *populator) hasVerses(ctx context.Context) (bool, error) {
	var exists bool
	err := p.operator.Pool().QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM verses)").Scan(&exists)
	if err != nil {
		return false, corpus.NewStorageError("check existing corpus", err)
	}
	return exists, nil
}

// dropCorpus removes corpus content in dependency order. Seed tables
// (languages, sources, reciters) survive; their rows are upserted again
// during seeding.
func (p *populator) dropCorpus(ctx context.Context) error {
	slog.Warn("Dropping existing corpus content")

	tables := []string{"recitations", "translations", "verses", "chapters"}
	for _, table := range tables {
		_, err := p.operator.Pool().Exec(ctx, "DELETE FROM "+table)
		if err != nil {
			return corpus.NewStorageError("drop "+table, err)
		}
	}
	return nil
}
