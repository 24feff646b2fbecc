package ioannot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/internal/ioannot"
	"github.com/mushafdb/mushafdb/internal/iofs"
	"github.com/mushafdb/mushafdb/internal/iotesting"
	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// seedAnnotations sets up one chapter, two verses, a source and a
// reciter, returning the ids of the two verses.
func seedAnnotations(
	t *testing.T,
	ctx context.Context,
	op db.Operator,
) (int64, int64) {
	t.Helper()

	_, err := op.Pool().Exec(ctx, `INSERT INTO chapters
		(id, name_arabic, name_english, name_transliterated,
		 revelation_type, verse_count, has_basmala)
		VALUES (1, 'الفاتحة', 'The Opening', 'Al-Fatihah', 'meccan', 7, true)`)
	require.NoError(t, err)

	var v1, v2 int64
	err = op.Pool().QueryRow(ctx, `INSERT INTO verses
		(chapter_id, position_in_chapter, position_in_mushaf,
		 text_arabic, text_uthmani, updated_at)
		VALUES (1, 1, 1, 'بِسْمِ اللَّهِ', 'بِسْمِ ٱللَّهِ', NOW())
		RETURNING id`).Scan(&v1)
	require.NoError(t, err)
	err = op.Pool().QueryRow(ctx, `INSERT INTO verses
		(chapter_id, position_in_chapter, position_in_mushaf,
		 text_arabic, text_uthmani, updated_at)
		VALUES (1, 2, 2, 'الْحَمْدُ لِلَّهِ', 'ٱلْحَمْدُ لِلَّهِ', NOW())
		RETURNING id`).Scan(&v2)
	require.NoError(t, err)

	_, err = op.Pool().Exec(ctx, `INSERT INTO languages
		(name, code, direction) VALUES ('English', 'en', 'ltr')`)
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, `INSERT INTO sources
		(name, author, language_id, is_active)
		VALUES ('Test Source', 'Tester', 1, true)`)
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, `INSERT INTO reciters
		(name, style, is_active)
		VALUES ('Test Reciter', 'murattal', true)`)
	require.NoError(t, err)

	return v1, v2
}

func TestUpsertTranslation(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, _ := seedAnnotations(t, ctx, op)
	store := ioannot.New(op, nil)

	err := store.UpsertTranslation(ctx, v1, 1,
		"In the name of God", "", false, 0)
	require.NoError(t, err)

	// Second upsert for the same pair updates instead of duplicating.
	err = store.UpsertTranslation(ctx, v1, 1,
		"In the name of God, the Merciful", "note", true, 7)
	require.NoError(t, err)

	recs, err := store.TranslationsForVerse(ctx, v1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "In the name of God, the Merciful", recs[0].Text)
	assert.True(t, recs[0].IsApproved)
	assert.Equal(t, "Test Source", recs[0].SourceName)
	assert.Equal(t, "en", recs[0].LanguageCode)

	// Empty text is rejected before any write.
	err = store.UpsertTranslation(ctx, v1, 1, "", "", false, 0)
	var verr *corpus.ValidationError
	require.True(t, errors.As(err, &verr))

	// A missing verse surfaces as a reference error naming the verse.
	err = store.UpsertTranslation(ctx, 999999, 1, "text", "", false, 0)
	var rerr *corpus.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "verse", rerr.Entity)
}

func TestByChapterAndSource(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, v2 := seedAnnotations(t, ctx, op)
	store := ioannot.New(op, nil)

	require.NoError(t, store.UpsertTranslation(ctx, v2, 1,
		"Praise belongs to God", "", false, 0))
	require.NoError(t, store.UpsertTranslation(ctx, v1, 1,
		"In the name of God", "", false, 0))

	recs, err := store.ByChapterAndSource(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Ordered by position within the chapter regardless of insert order.
	assert.Equal(t, 1, recs[0].PositionInChapter)
	assert.Equal(t, 2, recs[1].PositionInChapter)
}

func TestSearchTranslations(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, v2 := seedAnnotations(t, ctx, op)
	store := ioannot.New(op, nil)

	require.NoError(t, store.UpsertTranslation(ctx, v1, 1,
		"In the name of God, the Compassionate", "", false, 0))
	require.NoError(t, store.UpsertTranslation(ctx, v2, 1,
		"Praise belongs to God", "", false, 0))

	recs, err := store.Search(ctx, corpus.SearchQuery{Text: "compassion"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, v1, recs[0].VerseID)

	// LIKE metacharacters match literally, not as wildcards.
	recs, err = store.Search(ctx, corpus.SearchQuery{Text: "100%"})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestUpsertRecitationAndDelete(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, _ := seedAnnotations(t, ctx, op)

	files, err := iofs.New(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)
	store := ioannot.New(op, files)

	// A bad reciter reference is named.
	_, err = store.UpsertRecitation(ctx, corpus.RecitationUpload{
		VerseID:   v1,
		ReciterID: 999,
		FilePath:  "/tmp/x.mp3",
	})
	var rerr *corpus.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "reciter", rerr.Entity)

	id1, err := store.UpsertRecitation(ctx, corpus.RecitationUpload{
		VerseID:   v1,
		ReciterID: 1,
		FilePath:  "/tmp/a.mp3",
		FileName:  "001001.mp3",
		FileSize:  100,
		Format:    "mp3",
	})
	require.NoError(t, err)

	// Re-upload for the same pair replaces the row.
	id2, err := store.UpsertRecitation(ctx, corpus.RecitationUpload{
		VerseID:   v1,
		ReciterID: 1,
		FilePath:  "/tmp/b.mp3",
		FileName:  "001001-v2.mp3",
		FileSize:  200,
		Format:    "mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	recs, err := store.RecitationsForVerse(ctx, v1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "/tmp/b.mp3", recs[0].FilePath)
	assert.Equal(t, "Test Reciter", recs[0].ReciterName)

	// Deleting removes the row even when the file is already gone.
	require.NoError(t, store.DeleteRecitation(ctx, id2))
	recs, err = store.RecitationsForVerse(ctx, v1)
	require.NoError(t, err)
	assert.Empty(t, recs)

	var nf *corpus.NotFoundError
	err = store.DeleteRecitation(ctx, id2)
	require.True(t, errors.As(err, &nf))
}

func TestUpsertRecitationStorageFailureIsNotReference(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, _ := seedAnnotations(t, ctx, op)
	store := ioannot.New(op, nil)

	// Break the reference pre-check itself. The failure must surface as
	// a storage error, not as a claim that the verse is missing.
	_, err := op.Pool().Exec(ctx, `DROP TABLE verses CASCADE`)
	require.NoError(t, err)

	_, err = store.UpsertRecitation(ctx, corpus.RecitationUpload{
		VerseID:   v1,
		ReciterID: 1,
		FilePath:  "/tmp/x.mp3",
	})
	var serr *corpus.StorageError
	require.True(t, errors.As(err, &serr))
	var rerr *corpus.ReferenceError
	assert.False(t, errors.As(err, &rerr))
}

func TestAudioStatusForChapter(t *testing.T) {
	ctx := context.Background()
	op := iotesting.OperatorWithSchema(t, ctx)
	v1, _ := seedAnnotations(t, ctx, op)

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "a.mp3")
	require.NoError(t, os.WriteFile(audioPath, []byte("audio"), 0644))

	files, err := iofs.New(filepath.Join(dir, "media"))
	require.NoError(t, err)
	store := ioannot.New(op, files)

	_, err = store.UpsertRecitation(ctx, corpus.RecitationUpload{
		VerseID:   v1,
		ReciterID: 1,
		FilePath:  audioPath,
		Format:    "mp3",
	})
	require.NoError(t, err)

	statuses, err := store.AudioStatusForChapter(ctx, 1)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.True(t, statuses[0].HasAudio)
	assert.Equal(t, 1, statuses[0].AudioCount)
	assert.NotNil(t, statuses[0].LatestUpload)
	assert.False(t, statuses[1].HasAudio)
	assert.Zero(t, statuses[1].AudioCount)
}
