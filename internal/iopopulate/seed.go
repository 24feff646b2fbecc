package iopopulate

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mushafdb/mushafdb/pkg/config"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/seed"
)

// seed loads sources.yaml from the config directory and upserts
// languages, translation sources and reciters. A missing file is not an
// error; the corpus is usable without seed data.
func (p *populator) seed(ctx context.Context) error {
	path := config.SourcesFilePath(p.cfg.HomeDir)

	cfg, err := loadSeedConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No sources.yaml found, skipping seed data",
			"path", path)
		return nil
	}
	if err != nil {
		return SeedError(path, err)
	}

	langIDs, err := p.seedLanguages(ctx, cfg.Languages)
	if err != nil {
		return err
	}
	if err = p.seedSources(ctx, cfg.Sources, langIDs); err != nil {
		return err
	}
	if err = p.seedReciters(ctx, cfg.Reciters); err != nil {
		return err
	}

	slog.Info("Seed data loaded",
		"languages", len(cfg.Languages),
		"sources", len(cfg.Sources),
		"reciters", len(cfg.Reciters),
	)
	return nil
}

func loadSeedConfig(path string) (*seed.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg seed.Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// seedLanguages upserts languages keyed by code and returns a code to id map for
// source seeding.
func (p *populator) seedLanguages(
	ctx context.Context,
	langs []seed.Language,
) (map[string]int64, error) {
	ids := make(map[string]int64, len(langs))

	for _, l := range langs {
		direction := l.Direction
		if direction == "" {
			direction = "ltr"
		}

		var id int64
		err := p.operator.Pool().QueryRow(ctx,
			`INSERT INTO languages (name, code, direction)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO UPDATE
			 SET name = EXCLUDED.name, direction = EXCLUDED.direction
			 RETURNING id`,
			l.Name, l.Code, direction,
		).Scan(&id)
		if err != nil {
			return nil, corpus.NewStorageError("seed language "+l.Code, err)
		}
		ids[l.Code] = id
	}
	return ids, nil
}

func (p *populator) seedSources(
	ctx context.Context,
	srcs []seed.Source,
	langIDs map[string]int64,
) error {
	for _, s := range srcs {
		langID, ok := langIDs[s.Language]
		if !ok {
			// The language may predate this seed run.
			err := p.operator.Pool().QueryRow(ctx,
				"SELECT id FROM languages WHERE code = $1",
				s.Language).Scan(&langID)
			if err != nil {
				return corpus.NewValidationError("source language",
					"source %q refers to unknown language %q",
					s.Name, s.Language)
			}
		}

		_, err := p.operator.Pool().Exec(ctx,
			`INSERT INTO sources (name, author, language_id, is_active)
			 VALUES ($1, $2, $3, true)
			 ON CONFLICT (name) DO UPDATE
			 SET author = EXCLUDED.author,
			     language_id = EXCLUDED.language_id`,
			s.Name, s.Author, langID,
		)
		if err != nil {
			return corpus.NewStorageError("seed source "+s.Name, err)
		}
	}
	return nil
}

func (p *populator) seedReciters(
	ctx context.Context,
	reciters []seed.Reciter,
) error {
	for _, r := range reciters {
		_, err := p.operator.Pool().Exec(ctx,
			`INSERT INTO reciters (name, style, is_active)
			 VALUES ($1, $2, true)
			 ON CONFLICT (name) DO UPDATE
			 SET style = EXCLUDED.style`,
			r.Name, r.Style,
		)
		if err != nil {
			return corpus.NewStorageError("seed reciter "+r.Name, err)
		}
	}
	return nil
}
