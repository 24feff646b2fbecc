// Package iofs stores recitation audio files on the local filesystem.
// Files are renamed to collision-free UUID names on save; the original
// name is kept in the database row, not on disk.
package iofs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mushafdb/mushafdb/pkg/corpus"
)

// Store saves and removes media files under a root directory.
type Store struct {
	root string
}

// New creates a media store rooted at dir, creating it when absent.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, corpus.NewValidationError("media dir",
			"must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, corpus.NewStorageError("create media dir", err)
	}
	return &Store{root: dir}, nil
}

// Save streams r into a new file named by a random UUID, keeping the
// original extension. Returns the stored path and the byte count.
func (s *Store) Save(r io.Reader, origName string) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, corpus.NewStorageError("save media file", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, corpus.NewStorageError("save media file", err)
	}
	if err = f.Close(); err != nil {
		os.Remove(path)
		return "", 0, corpus.NewStorageError("save media file", err)
	}

	return path, size, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error; the database row is the authoritative state.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return corpus.NewStorageError("remove media file", err)
	}
	return nil
}
