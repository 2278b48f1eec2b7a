// Package collection handles collection bookkeeping: creation with name
// validation, listing, and appending documents.
package collection

import (
	"context"
	"fmt"
	"regexp"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
)

const maxNameLength = 64

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reserved names collide with store bookkeeping keys.
var reservedNames = map[string]struct{}{
	"collections": {},
}

// Service handles collection operations.
type Service struct {
	store Store
}

// New creates a collection service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Create validates the name and registers an empty collection.
func (s *Service) Create(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.store.Create(ctx, name); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// List returns collection names in creation order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// Get returns the collection's documents in insertion order.
func (s *Service) Get(ctx context.Context, name string) ([]document.Document, error) {
	docs, err := s.store.Docs(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return docs, nil
}

// Append parses raw JSON objects into documents and stores them.
// Documents without an id get one assigned.
func (s *Service) Append(ctx context.Context, name string, bodies ...[]byte) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(bodies))
	for i, body := range bodies {
		doc, err := document.FromJSON(body)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	if err := s.store.Append(ctx, name, docs...); err != nil {
		return nil, fmt.Errorf("append documents: %w", err)
	}
	return docs, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", domain.ErrInvalidName, maxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name must match %s", domain.ErrInvalidName, namePattern.String())
	}
	if _, ok := reservedNames[name]; ok {
		return fmt.Errorf("%w: %q is reserved", domain.ErrInvalidName, name)
	}
	return nil
}
