package corpus

import (
	"fmt"
)

// Error taxonomy for the corpus core. All store and engine operations
// return one of these types so callers can branch with errors.As and map
// them to transport codes. Partial bulk results are values (ImportResult),
// not errors.

// ValidationError reports malformed or out-of-range input. The caller can
// recover by correcting the input; it is never retried automatically.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NewValidationError creates a ValidationError for a named input field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field: field,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// NotFoundError reports that a referenced entity does not exist, or
// vanished between validation and commit.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError for an entity and its id.
func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a positional or uniqueness collision detected by
// the reindexing engine. It names the verse that already occupies the
// requested address so the caller can re-propose.
type ConflictError struct {
	VerseID int64
	Field   string
	Msg     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"indexing conflict on %s: verse %d already occupies the address (%s)",
		e.Field, e.VerseID, e.Msg)
}

// NewConflictError creates a ConflictError naming the colliding verse.
func NewConflictError(verseID int64, field, format string, args ...any) error {
	return &ConflictError{
		VerseID: verseID,
		Field:   field,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// ReferenceError reports a write that referenced a nonexistent foreign
// entity (verse, source, reciter). Treated as caller error.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Entity, e.ID)
}

// NewReferenceError creates a ReferenceError identifying which reference
// is missing.
func NewReferenceError(entity string, id int64) error {
	return &ReferenceError{Entity: entity, ID: id}
}

// StorageError wraps an underlying storage failure (connection loss,
// corrupted data, failed statement). The operation failed as a whole; the
// caller may retry after backoff, the core never retries internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for the named operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
