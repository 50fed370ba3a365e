/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import "context"

// UpdateFunc mutates a freshly loaded document. It reports whether anything changed so read-only
// commands do not rewrite the store. Backends with optimistic writes may call it more than once
// with a fresh document, so it must not have side effects outside doc
type UpdateFunc func(doc *Document) (changed bool, err error)

// Interface defines the methods every store backend implements.
// This allows for mocking in tests.
type Interface interface {
	// Load returns a fresh snapshot. Missing state yields an empty document, never an error
	Load(ctx context.Context) (*Document, error)
	// Save overwrites the whole persisted state with doc
	Save(ctx context.Context, doc *Document) error
	// Update runs fn against the latest state and persists the result. Updates never interleave
	Update(ctx context.Context, fn UpdateFunc) error
	Close(ctx context.Context) error
}

// Ensure both backends implement Interface
var (
	_ Interface = (*FileStore)(nil)
	_ Interface = (*MongoStore)(nil)
)
