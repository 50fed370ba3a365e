/* store.go
 * Contains the default store backend: a single JSON document on disk, reloaded on every access
 * and rewritten wholesale through a temp file + rename so a crash mid-write never leaves a torn file
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "poolmanager-bot/api/errors"
)

type FileStore struct {
	Path string

	// mu serialises Update and Save. Load does not take it: rename is atomic so readers always
	// see a complete document
	mu sync.Mutex
}

// NewFileStore prepares a store at path, creating the parent directory if needed.
// Preconditions: path is a file path, the file itself does not need to exist
// Postconditions: Returns a FileStore or an error when the directory cannot be created
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{Path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

// Update loads the current document, applies fn and writes the result back while holding the
// writer lock, so concurrent request handlers and the scheduler cannot lose each other's updates
func (s *FileStore) Update(ctx context.Context, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := s.read()
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.write(doc)
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) read() (*Document, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, apperrors.Persistence("reading store", err)
	}
	if len(raw) == 0 {
		return NewDocument(), nil
	}

	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, apperrors.Persistence(fmt.Sprintf("decoding %s", s.Path), err)
	}
	doc.normalize()
	return doc, nil
}

func (s *FileStore) write(doc *Document) error {
	doc.normalize()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Persistence("encoding store", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return apperrors.Persistence("creating temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		cleanup()
		return apperrors.Persistence("writing temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return apperrors.Persistence("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperrors.Persistence("closing temp file", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		cleanup()
		return apperrors.Persistence("replacing store file", err)
	}
	return nil
}
