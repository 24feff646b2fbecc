package iopopulate

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver
)

// snapshot wraps the read-only SQLite snapshot of the canonical corpus.
// The expected layout holds a chapters table and a verses table; column
// names follow the canonical distribution dumps.
type snapshot struct {
	db *sql.DB
}

func openSnapshot(path string) (*snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, SnapshotError(path, err)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, SnapshotError(path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, SnapshotError(path, err)
	}

	s := &snapshot{db: db}
	if err = s.checkTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *snapshot) Close() error {
	return s.db.Close()
}

func (s *snapshot) checkTables() error {
	for _, table := range []string{"chapters", "verses"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master
			 WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err == sql.ErrNoRows {
			return SnapshotError(table,
				fmt.Errorf("snapshot has no %q table", table))
		}
		if err != nil {
			return SnapshotError(table, err)
		}
	}
	return nil
}

// chapterRow mirrors one snapshot chapters row.
type chapterRow struct {
	id                 int
	nameArabic         string
	nameEnglish        sql.NullString
	nameTransliterated sql.NullString
	revelationType     sql.NullString
	verseCount         int
	hasBasmala         sql.NullBool
}

func (s *snapshot) chapters() ([]chapterRow, error) {
	rows, err := s.db.Query(
		`SELECT id, name_arabic, name_english, name_transliterated,
		        revelation_type, verse_count, has_basmala
		 FROM chapters ORDER BY id`)
	if err != nil {
		return nil, SnapshotError("chapters", err)
	}
	defer rows.Close()

	var res []chapterRow
	for rows.Next() {
		var c chapterRow
		err = rows.Scan(&c.id, &c.nameArabic, &c.nameEnglish,
			&c.nameTransliterated, &c.revelationType, &c.verseCount,
			&c.hasBasmala)
		if err != nil {
			return nil, SnapshotError("chapters", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// verseRow mirrors one snapshot verses row.
type verseRow struct {
	chapterID         int
	positionInChapter int
	positionInMushaf  int
	textArabic        string
	textUthmani       sql.NullString
	juzNumber         sql.NullInt32
	hizbNumber        sql.NullInt32
	rukuNumber        sql.NullInt32
}

// verses streams snapshot verses in canonical order into out. The
// channel is closed when the scan finishes. Cancellation unblocks a
// stalled send.
func (s *snapshot) verses(ctx context.Context, out chan<- verseRow) error {
	defer close(out)

	rows, err := s.db.Query(
		`SELECT chapter_id, position_in_chapter, position_in_mushaf,
		        text_arabic, text_uthmani,
		        juz_number, hizb_number, ruku_number
		 FROM verses
		 ORDER BY chapter_id, position_in_chapter`)
	if err != nil {
		return SnapshotError("verses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v verseRow
		err = rows.Scan(&v.chapterID, &v.positionInChapter,
			&v.positionInMushaf, &v.textArabic, &v.textUthmani,
			&v.juzNumber, &v.hizbNumber, &v.rukuNumber)
		if err != nil {
			return SnapshotError("verses", err)
		}
		select {
		case out <- v:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return rows.Err()
}
