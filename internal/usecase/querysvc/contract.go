package querysvc

import (
	"context"

	"github.com/kailas-cloud/docql/internal/domain/document"
)

// Store provides the documents a query runs over.
type Store interface {
	Docs(ctx context.Context, name string) ([]document.Document, error)
}
