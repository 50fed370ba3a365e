/* test_helpers.go
 * Contains test helper functions for store package tests and for packages that need a real store
 */

package store

import (
	"path/filepath"
	"testing"
	"time"
)

// NewTestFileStore creates a FileStore inside a per-test temp directory.
func NewTestFileStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := NewFileStore(filepath.Join(t.TempDir(), "pools.json"))
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return s
}

// CreateSamplePool creates a pool with no players or interested users.
func CreateSamplePool(id string, openAt time.Time, maxCourts int) Pool {
	return Pool{
		ID:         id,
		Name:       id,
		Price:      10,
		Schedule:   "19:00",
		OpenAt:     openAt,
		MaxCourts:  maxCourts,
		Players:    []Registration{},
		Interested: []string{},
	}
}

// CreateSampleDocument creates a document holding the given pools and known users.
func CreateSampleDocument(users []string, pools ...Pool) *Document {
	doc := NewDocument()
	doc.Users = append(doc.Users, users...)
	doc.Pools = append(doc.Pools, pools...)
	doc.normalize()
	return doc
}
