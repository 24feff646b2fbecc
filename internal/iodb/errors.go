package iodb

import (
	"errors"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// ErrNotConnected signals an operation attempted before Connect.
var ErrNotConnected = errors.New("not connected to database")

// NotConnectedError wraps ErrNotConnected into the core taxonomy.
func NotConnectedError() error {
	return corpus.NewStorageError("connection check", ErrNotConnected)
}
