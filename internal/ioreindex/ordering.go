package ioreindex

import (
	"context"

	"github.com/mushafdb/mushafdb/pkg/corpus"
	"github.com/mushafdb/mushafdb/pkg/db"
)

// OrderingViolation reports a verse whose corpus-wide position does not
// strictly increase in canonical chapter/position order.
type OrderingViolation struct {
	VerseID          int64
	Address          corpus.VerseAddress
	PreviousPosition int
}

// CheckOrdering scans the whole corpus for monotonicity violations of
// the corpus-wide position. Storage enforces uniqueness of the position;
// the strictly-increasing invariant is validated here, in one windowed
// query.
func CheckOrdering(
	ctx context.Context,
	op db.Operator,
) ([]OrderingViolation, error) {
	query := `SELECT id, chapter_id, position_in_chapter,
			position_in_mushaf, prev
		FROM (
			SELECT id, chapter_id, position_in_chapter, position_in_mushaf,
				LAG(position_in_mushaf) OVER (
					ORDER BY chapter_id, position_in_chapter
				) AS prev
			FROM verses
		) ordered
		WHERE prev IS NOT NULL AND position_in_mushaf <= prev
		ORDER BY chapter_id, position_in_chapter`

	rows, err := op.Pool().Query(ctx, query)
	if err != nil {
		return nil, corpus.NewStorageError("ordering check", err)
	}
	defer rows.Close()

	var res []OrderingViolation
	for rows.Next() {
		var v OrderingViolation
		err := rows.Scan(
			&v.VerseID, &v.Address.ChapterID,
			&v.Address.PositionInChapter, &v.Address.PositionInMushaf,
			&v.PreviousPosition,
		)
		if err != nil {
			return nil, corpus.NewStorageError("scan ordering check", err)
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		return nil, corpus.NewStorageError("ordering check", err)
	}

	return res, nil
}
