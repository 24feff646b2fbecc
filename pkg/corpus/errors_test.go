package corpus_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

func TestValidationError(t *testing.T) {
	err := corpus.NewValidationError("chapter id",
		"must be between 1 and %d, got %d", 114, 115)

	var verr *corpus.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "chapter id", verr.Field)
	assert.Equal(t,
		"invalid chapter id: must be between 1 and 114, got 115",
		err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := corpus.NewNotFoundError("verse", 42)

	var nferr *corpus.NotFoundError
	require.True(t, errors.As(err, &nferr))
	assert.Equal(t, int64(42), nferr.ID)
	assert.Equal(t, "verse 42 not found", err.Error())

	// Zero id omits the number.
	err = corpus.NewNotFoundError("chapter", 0)
	assert.Equal(t, "chapter not found", err.Error())
}

func TestConflictError(t *testing.T) {
	err := corpus.NewConflictError(7, "position in mushaf",
		"position %d", 255)

	var cerr *corpus.ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, int64(7), cerr.VerseID)
	assert.Contains(t, err.Error(), "verse 7 already occupies")
	assert.Contains(t, err.Error(), "position 255")
}

func TestReferenceError(t *testing.T) {
	err := corpus.NewReferenceError("reciter", 13)

	var rerr *corpus.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "reciter", rerr.Entity)
	assert.Equal(t, "referenced reciter 13 does not exist", err.Error())
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := corpus.NewStorageError("collision check", cause)

	var serr *corpus.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "collision check", serr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "collision check")
}

func TestErrorTypesAreDistinct(t *testing.T) {
	var verr *corpus.ValidationError
	var nferr *corpus.NotFoundError

	err := corpus.NewNotFoundError("verse", 1)
	assert.False(t, errors.As(err, &verr))
	assert.True(t, errors.As(err, &nferr))
}
