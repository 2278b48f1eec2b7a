// Package querysvc is the query facade: it resolves a collection's
// documents through the store and drives the engine, recording query
// metrics along the way.
package querysvc

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/engine"
	"github.com/kailas-cloud/docql/internal/metrics"
)

// Service executes queries against named collections.
type Service struct {
	store           Store
	engine          *engine.Engine
	pager           *engine.Paginator
	defaultPageSize int
	maxPageSize     int
}

// New creates a query service.
func New(store Store, eng *engine.Engine) *Service {
	return &Service{
		store:           store,
		engine:          eng,
		pager:           engine.NewPaginator(eng),
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination overrides page size bounds (zero values keep defaults).
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Query runs the query text against the named collection and returns
// the full result sequence.
func (s *Service) Query(ctx context.Context, collection, text string) ([]document.Document, error) {
	start := time.Now()

	docs, err := s.store.Docs(ctx, collection)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(collection, "error").Inc()
		return nil, fmt.Errorf("resolve collection: %w", err)
	}

	results, err := s.engine.Run(text, docs)
	s.record(collection, len(docs), start, err)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return results, nil
}

// QueryPage runs the query and returns one page of results plus a
// continuation token for the next page (empty at the end). pageSize 0
// selects the default; values above the maximum are clamped.
func (s *Service) QueryPage(
	ctx context.Context, collection, text string, pageSize int, token string,
) ([]document.Document, string, error) {
	start := time.Now()

	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	docs, err := s.store.Docs(ctx, collection)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(collection, "error").Inc()
		return nil, "", fmt.Errorf("resolve collection: %w", err)
	}

	page, next, err := s.pager.Page(text, docs, pageSize, token)
	s.record(collection, len(docs), start, err)
	if err != nil {
		return nil, "", fmt.Errorf("execute query page: %w", err)
	}
	return page, next, nil
}

func (s *Service) record(collection string, scanned int, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.QueriesTotal.WithLabelValues(collection, status).Inc()
	metrics.QueryDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	metrics.QueryDocsScanned.WithLabelValues(collection).Add(float64(scanned))
}
