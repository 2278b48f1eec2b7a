package collection

import (
	"context"

	"github.com/kailas-cloud/docql/internal/domain/document"
)

// Store defines the storage contract for collection bookkeeping.
type Store interface {
	Create(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	Names(ctx context.Context) ([]string, error)
	Docs(ctx context.Context, name string) ([]document.Document, error)
	Append(ctx context.Context, name string, docs ...document.Document) error
}
