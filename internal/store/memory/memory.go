// Package memory implements the collection store as an in-process
// registry. This is the emulator's primary backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/store"
)

// Compile-time check: Store implements store.CollectionStore.
var _ store.CollectionStore = (*Store)(nil)

// Store holds collections in memory. The registry lock serializes
// writes against scans so the engine always sees a stable snapshot;
// the query core itself takes no locks.
type Store struct {
	mu    sync.RWMutex
	names []string
	colls map[string][]document.Document
}

// New creates an empty registry.
func New() *Store {
	return &Store{colls: make(map[string][]document.Document)}
}

// Create registers an empty collection.
func (s *Store) Create(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colls[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionExists, name)
	}
	s.colls[name] = nil
	s.names = append(s.names, name)
	return nil
}

// Exists reports whether the collection is registered.
func (s *Store) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.colls[name]
	return ok, nil
}

// Names lists collections in creation order.
func (s *Store) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.names))
	copy(out, s.names)
	return out, nil
}

// Docs returns an insertion-ordered snapshot of the collection.
func (s *Store) Docs(_ context.Context, name string) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.colls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	out := make([]document.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// Append adds documents to the end of the collection.
func (s *Store) Append(_ context.Context, name string, docs ...document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.colls[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	s.colls[name] = append(existing, docs...)
	return nil
}

// Ping implements store.CollectionStore; memory is always reachable.
func (s *Store) Ping(context.Context) error { return nil }

// Close implements store.CollectionStore.
func (s *Store) Close() {}
