package iopopulate

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/iotesting"
	"github.com/mushafdb/mushafdb/pkg/config"
)

func testPopulator(t *testing.T, ctx context.Context) *populator {
	t.Helper()

	op := iotesting.OperatorWithSchema(t, ctx)

	cfg := config.New()
	cfg.HomeDir = t.TempDir()
	cfg.Database.BatchSize = 2 // force multiple CopyFrom batches
	cfg.JobsNumber = 2

	return &populator{cfg: cfg, operator: op}
}

func TestImportChaptersAndVerses(t *testing.T) {
	ctx := context.Background()
	p := testPopulator(t, ctx)

	snap, err := openSnapshot(makeSnapshot(t))
	require.NoError(t, err)
	defer snap.Close()

	chapterNum, err := p.importChapters(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 2, chapterNum)

	verseNum, err := p.importVerses(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 3, verseNum)

	var uthmani string
	err = p.operator.Pool().QueryRow(ctx,
		`SELECT text_uthmani FROM verses
		 WHERE chapter_id = 1 AND position_in_chapter = 2`,
	).Scan(&uthmani)
	require.NoError(t, err)
	// NULL alternate script falls back to the primary text.
	assert.Equal(t, "الْحَمْدُ لِلَّهِ", uthmani)

	populated, err := p.hasVerses(ctx)
	require.NoError(t, err)
	assert.True(t, populated)

	require.NoError(t, p.dropCorpus(ctx))
	populated, err = p.hasVerses(ctx)
	require.NoError(t, err)
	assert.False(t, populated)
}

func TestSeedFromSourcesYAML(t *testing.T) {
	ctx := context.Background()
	p := testPopulator(t, ctx)

	require.NoError(t,
		os.MkdirAll(config.ConfigDir(p.cfg.HomeDir), 0755))

	yml := `languages:
  - name: English
    code: en
  - name: Arabic
    code: ar
    direction: rtl
sources:
  - name: Test Source
    author: Tester
    language: en
reciters:
  - name: Test Reciter
    style: murattal
`
	require.NoError(t, os.WriteFile(
		config.SourcesFilePath(p.cfg.HomeDir), []byte(yml), 0644))

	require.NoError(t, p.seed(ctx))

	var direction string
	err := p.operator.Pool().QueryRow(ctx,
		`SELECT direction FROM languages WHERE code = 'en'`,
	).Scan(&direction)
	require.NoError(t, err)
	// Empty direction defaults to ltr.
	assert.Equal(t, "ltr", direction)

	var author string
	err = p.operator.Pool().QueryRow(ctx,
		`SELECT author FROM sources WHERE name = 'Test Source'`,
	).Scan(&author)
	require.NoError(t, err)
	assert.Equal(t, "Tester", author)

	// Seeding twice upserts instead of duplicating.
	require.NoError(t, p.seed(ctx))
	var count int
	err = p.operator.Pool().QueryRow(ctx,
		`SELECT count(*) FROM reciters WHERE name = 'Test Reciter'`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeedMissingFileIsSkipped(t *testing.T) {
	ctx := context.Background()
	p := testPopulator(t, ctx)

	assert.NoError(t, p.seed(ctx))
}
