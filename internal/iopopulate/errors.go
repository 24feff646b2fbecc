package iopopulate

import (
	"errors"
	"fmt"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// NotConnectedError reports population attempted without a database
// connection.
func NotConnectedError() error {
	return corpus.NewStorageError("populate",
		errors.New("database is not connected, call Connect first"))
}

// AlreadyPopulatedError reports a corpus that already holds verses when
// DropExisting was not requested.
func AlreadyPopulatedError() error {
	return corpus.NewStorageError("populate",
		errors.New("corpus already contains verses, use --force to recreate"))
}

// SnapshotError wraps failures reading the SQLite snapshot.
func SnapshotError(subject string, err error) error {
	return corpus.NewStorageError(
		fmt.Sprintf("read snapshot (%s)", subject), err)
}

// SeedError wraps failures loading or applying sources.yaml.
func SeedError(path string, err error) error {
	return corpus.NewStorageError(
		fmt.Sprintf("load seed data from %s", path), err)
}

// VerifyError reports a populated corpus that does not match the
// canonical shape.
func VerifyError(detail string) error {
	return corpus.NewStorageError("verify corpus", errors.New(detail))
}
