package docql

import "github.com/kailas-cloud/docql/internal/domain"

// Sentinel errors re-exported for errors.Is checks by SDK users.
var (
	ErrCollectionNotFound    = domain.ErrCollectionNotFound
	ErrCollectionExists      = domain.ErrCollectionExists
	ErrInvalidName           = domain.ErrInvalidName
	ErrUnknownFunction       = domain.ErrUnknownFunction
	ErrUnsupportedComparison = domain.ErrUnsupportedComparison
	ErrInvalidOperand        = domain.ErrInvalidOperand
)
