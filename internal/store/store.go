// Package store defines the collection provider contract the query
// core is driven with. Implementations hand the engine an ordered,
// read-only snapshot of a named collection; the core never mutates it.
package store

import (
	"context"

	"github.com/kailas-cloud/docql/internal/domain/document"
)

// CollectionStore is the registry of named document collections.
// Collections are append-only; writes must be serialized by the
// implementation so in-flight scans see a stable snapshot.
type CollectionStore interface {
	// Create registers an empty collection. Duplicate names fail with
	// domain.ErrCollectionExists.
	Create(ctx context.Context, name string) error
	// Exists reports whether the collection is registered.
	Exists(ctx context.Context, name string) (bool, error)
	// Names lists collections in creation order.
	Names(ctx context.Context) ([]string, error)
	// Docs returns the collection's documents in insertion order as a
	// snapshot safe to scan while writers proceed. Unknown names fail
	// with domain.ErrCollectionNotFound.
	Docs(ctx context.Context, name string) ([]document.Document, error)
	// Append adds documents to the end of a collection.
	Append(ctx context.Context, name string, docs ...document.Document) error
	// Ping checks the backing service; a no-op for in-memory stores.
	Ping(ctx context.Context) error
	// Close releases backing connections.
	Close()
}
