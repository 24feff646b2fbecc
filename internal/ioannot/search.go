package ioannot

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// Search finds translations whose text contains the query string.
// Queries shorter than corpus.MinSearchLength are rejected: short
// substrings bypass the trigram index and degrade into full scans, so
// the cutoff is a cost-control policy, not a UX nicety.
func (s *store) Search(
	ctx context.Context,
	q corpus.SearchQuery,
) ([]corpus.TranslationRecord, error) {
	if utf8.RuneCountInString(q.Text) < corpus.MinSearchLength {
		return nil, corpus.NewValidationError("search query",
			"must be at least %d characters", corpus.MinSearchLength)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = corpus.DefaultSearchLimit
	}

	// Constraints go through the typed filter builder; the storage layer
	// renders them, keeping every value parameterized.
	var filters corpus.Filters
	filters.Where("t.text", corpus.OpContains, q.Text)
	if q.SourceID != 0 {
		filters.Where("t.source_id", corpus.OpEq, q.SourceID)
	}

	where, args, err := filters.SQL(1)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + translationColumns + `,
			v.chapter_id, v.position_in_chapter, v.position_in_mushaf,
			v.text_arabic, src.name, l.code
		FROM translations t
		JOIN verses v ON t.verse_id = v.id
		JOIN sources src ON t.source_id = src.id
		JOIN languages l ON src.language_id = l.id
		WHERE ` + where + `
		ORDER BY v.position_in_mushaf
		LIMIT ` + fmt.Sprintf("$%d", len(args)+1)

	args = append(args, limit)

	return s.queryTranslations(ctx, query, args...)
}
