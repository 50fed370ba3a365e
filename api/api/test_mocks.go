/* test_mocks.go
 * Contains mock structures for testing the API package and the packages built on top of it
 */

package api

import (
	"context"
	"fmt"
	"sync"

	apperrors "poolmanager-bot/api/errors"
	"poolmanager-bot/api/store"
)

// MockStore implements store.Interface in memory
type MockStore struct {
	mu  sync.Mutex
	Doc *store.Document

	// Error injection for testing error paths
	LoadError   error
	SaveError   error
	UpdateError error

	// Saves counts how many times state was persisted
	Saves int
}

// NewMockStore creates a MockStore holding doc, or an empty document when doc is nil
func NewMockStore(doc *store.Document) *MockStore {
	if doc == nil {
		doc = store.NewDocument()
	}
	return &MockStore{Doc: doc}
}

func (m *MockStore) Load(ctx context.Context) (*store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return m.Doc.Clone(), nil
}

func (m *MockStore) Save(ctx context.Context, doc *store.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Doc = doc.Clone()
	m.Saves++
	return nil
}

func (m *MockStore) Update(ctx context.Context, fn store.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}

	doc := m.Doc.Clone()
	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Doc = doc
	m.Saves++
	return nil
}

func (m *MockStore) Close(ctx context.Context) error {
	return nil
}

// Snapshot returns a copy of the current state for assertions
func (m *MockStore) Snapshot() *store.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Doc.Clone()
}

// SentMessage is one delivery recorded by MockMessenger
type SentMessage struct {
	To   string
	Text string
}

// MockMessenger records every send. Identities listed in FailFor return an error instead
type MockMessenger struct {
	mu      sync.Mutex
	Sent    []SentMessage
	FailFor map[string]bool
}

func NewMockMessenger(failFor ...string) *MockMessenger {
	m := &MockMessenger{FailFor: map[string]bool{}}
	for _, identity := range failFor {
		m.FailFor[identity] = true
	}
	return m
}

func (m *MockMessenger) Send(ctx context.Context, identity string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[identity] {
		return apperrors.NewAppError(apperrors.CodeDelivery, fmt.Sprintf("mock failure for %s", identity), nil)
	}
	m.Sent = append(m.Sent, SentMessage{To: identity, Text: text})
	return nil
}

// Recipients lists the identities that received a message, in send order
func (m *MockMessenger) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Sent))
	for _, s := range m.Sent {
		out = append(out, s.To)
	}
	return out
}

var _ store.Interface = (*MockStore)(nil)
