// Package schema provides database schema models for mushafdb.
// Uniqueness constraints on verse addresses and annotation pairs live
// here so upserts are well-defined at the storage layer, not only in
// application logic.
package schema

import (
	"database/sql"
	"time"
)

// Chapter is a titled division of the corpus (a surah). Chapters are
// created once during corpus bootstrap and only their metadata is ever
// corrected afterwards; they are never deleted in normal operation.
type Chapter struct {
	// ID is the canonical chapter number, fixed range 1..114.
	ID int `db:"id" gorm:"primaryKey;autoIncrement:false"`

	// NameArabic is the canonical name in the origin script.
	NameArabic string `db:"name_arabic" gorm:"type:varchar(100);not null"`

	// NameEnglish is the translated display name.
	NameEnglish string `db:"name_english" gorm:"type:varchar(100)"`

	// NameTransliterated is the transliterated display name.
	NameTransliterated string `db:"name_transliterated" gorm:"type:varchar(100)"`

	// RevelationType is one of two fixed classes: "meccan" or "medinan".
	RevelationType string `db:"revelation_type" gorm:"type:varchar(10)"`

	// VerseCount is the declared number of verses; it must equal the
	// count of associated Verse rows once the corpus is fully populated.
	VerseCount int `db:"verse_count" gorm:"not null"`

	// HasBasmala is true when the chapter opens with the preamble.
	HasBasmala bool `db:"has_basmala"`
}

// Verse is the atomic addressable unit of the corpus (an ayah).
type Verse struct {
	// ID is a surrogate identifier.
	ID int64 `db:"id" gorm:"primaryKey"`

	// ChapterID is the owning chapter.
	ChapterID int `db:"chapter_id" gorm:"uniqueIndex:ux_verses_chapter_position;not null"`

	// PositionInChapter is the 1-based position within the chapter.
	// (chapter_id, position_in_chapter) is unique.
	PositionInChapter int `db:"position_in_chapter" gorm:"uniqueIndex:ux_verses_chapter_position;not null"`

	// PositionInMushaf is the 1-based corpus-wide position, unique and
	// strictly increasing in canonical chapter/position order. Storage
	// enforces uniqueness; the ordering invariant is validated by the
	// reindexing engine on writes.
	PositionInMushaf int `db:"position_in_mushaf" gorm:"uniqueIndex:ux_verses_mushaf_position;not null"`

	// TextArabic is the primary text; never empty. The check constraint
	// makes storage reject an empty string, not just NULL.
	TextArabic string `db:"text_arabic" gorm:"type:text;not null;check:chk_verses_text_arabic,text_arabic <> ''"`

	// TextUthmani is the alternate canonical-script text; defaults to
	// TextArabic when absent.
	TextUthmani string `db:"text_uthmani" gorm:"type:text"`

	// JuzNumber is an optional devotional partition marker.
	JuzNumber sql.NullInt32 `db:"juz_number"`

	// HizbNumber is an optional devotional partition marker.
	HizbNumber sql.NullInt32 `db:"hizb_number"`

	// RukuNumber is an optional devotional partition marker.
	RukuNumber sql.NullInt32 `db:"ruku_number"`

	// UpdatedAt records the last structural or textual change.
	UpdatedAt time.Time `db:"updated_at"`
}

// Language describes one translation language.
type Language struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	// Name is the language display name.
	Name string `db:"name" gorm:"type:varchar(100);not null"`

	// Code is the ISO language code.
	Code string `db:"code" gorm:"type:varchar(10);uniqueIndex;not null"`

	// Direction is "ltr" or "rtl".
	Direction string `db:"direction" gorm:"type:varchar(3)"`
}

// Source describes one translation provenance. Sources are created by
// administrators and soft-deactivated rather than deleted.
type Source struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	// Name is globally unique across all sources.
	Name string `db:"name" gorm:"type:varchar(255);uniqueIndex;not null"`

	// Author is the translator or institution.
	Author string `db:"author" gorm:"type:varchar(255)"`

	// LanguageID is the owning language.
	LanguageID int64 `db:"language_id" gorm:"not null"`

	// IsActive soft-deactivates a source without losing its rows.
	IsActive bool `db:"is_active" gorm:"default:true"`
}

// Translation is text content attached to exactly one (verse, source)
// pair. The pair is unique so upserts are well-defined; rows are deleted
// only via cascade when the owning verse is deleted.
type Translation struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	// VerseID references the annotated verse; read-only foreign key.
	VerseID int64 `db:"verse_id" gorm:"uniqueIndex:ux_translations_verse_source;not null"`

	// SourceID references the translation source.
	SourceID int64 `db:"source_id" gorm:"uniqueIndex:ux_translations_verse_source;not null"`

	// Text is the translation body; never empty.
	Text string `db:"text" gorm:"type:text;not null"`

	// Footnotes holds optional annotation text.
	Footnotes string `db:"footnotes" gorm:"type:text"`

	// IsApproved marks editorially approved translations.
	IsApproved bool `db:"is_approved"`

	// ApprovedBy identifies the approving editor.
	ApprovedBy sql.NullInt64 `db:"approved_by"`

	// ApprovedAt is the approval timestamp.
	ApprovedAt sql.NullTime `db:"approved_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Reciter is a named provenance of recitation audio.
type Reciter struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	Name string `db:"name" gorm:"type:varchar(255);uniqueIndex;not null"`

	// Style is the recitation style (murattal, mujawwad).
	Style string `db:"style" gorm:"type:varchar(50)"`

	IsActive bool `db:"is_active" gorm:"default:true"`
}

// Recitation is a stored audio file attached to exactly one
// (verse, reciter) pair. New uploads for an existing pair replace the
// row instead of duplicating it.
type Recitation struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	VerseID int64 `db:"verse_id" gorm:"uniqueIndex:ux_recitations_verse_reciter;not null"`

	ReciterID int64 `db:"reciter_id" gorm:"uniqueIndex:ux_recitations_verse_reciter;not null"`

	// FilePath is the stored location; the database row is authoritative
	// and file removal is best-effort.
	FilePath string `db:"file_path" gorm:"type:varchar(500);not null"`

	// FileName is the original upload name.
	FileName string `db:"file_name" gorm:"type:varchar(255)"`

	// FileSize is the declared size in bytes.
	FileSize int64 `db:"file_size"`

	// Format is the audio format tag (mp3, ogg, wav).
	Format string `db:"format" gorm:"type:varchar(10)"`

	IsActive bool `db:"is_active" gorm:"default:true"`

	// UploadedBy identifies the uploading editor.
	UploadedBy int64 `db:"uploaded_by"`

	UploadedAt time.Time `db:"uploaded_at"`
}

// ActivityRecord is one append-only audit trail entry. Records are never
// mutated or deleted, and writing one must never fail the operation it
// describes.
type ActivityRecord struct {
	ID int64 `db:"id" gorm:"primaryKey"`

	// ActorID is the authenticated editor performing the action.
	ActorID int64 `db:"actor_id" gorm:"index"`

	// Action is a short tag such as "verse.reindex" or
	// "translation.upsert".
	Action string `db:"action" gorm:"type:varchar(100);index;not null"`

	// EntityType names the affected entity kind.
	EntityType string `db:"entity_type" gorm:"type:varchar(50)"`

	// EntityID is the affected entity's id.
	EntityID int64 `db:"entity_id"`

	// OldValues is the serialized state before the change.
	OldValues []byte `db:"old_values" gorm:"type:jsonb"`

	// NewValues is the serialized state after the change.
	NewValues []byte `db:"new_values" gorm:"type:jsonb"`

	// RemoteAddr is the origin network address.
	RemoteAddr string `db:"remote_addr" gorm:"type:varchar(64)"`

	// Client identifies the calling client.
	Client string `db:"client" gorm:"type:varchar(255)"`

	CreatedAt time.Time `db:"created_at"`
}
