// Package chi exposes the HTTP API: collection bookkeeping, query
// execution, health, and metrics. Domain errors are mapped to HTTP
// statuses through an ordered handler chain.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/parser"
	collectionuc "github.com/kailas-cloud/docql/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/docql/internal/usecase/health"
	"github.com/kailas-cloud/docql/internal/usecase/querysvc"
)

// Error codes returned in the response body.
const (
	codeBadRequest         = "bad_request"
	codeInvalidQuery       = "invalid_query"
	codeValidationFailed   = "validation_failed"
	codeCollectionNotFound = "collection_not_found"
	codeCollectionExists   = "collection_already_exists"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server carries the HTTP handlers and their dependencies.
type Server struct {
	collections   *collectionuc.Service
	queries       *querysvc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	queries *querysvc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		collections: collections,
		queries:     queries,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		parseErrorHandler,
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrCollectionExists, http.StatusConflict, codeCollectionExists),
		sentinelHandler(domain.ErrInvalidName, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownFunction, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrUnsupportedComparison, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidOperand, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrUnsupportedOperator, http.StatusBadRequest, codeInvalidQuery),
	}
	return s
}

// Routes returns a fresh router with all API routes mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register mounts all API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Route("/v1/collections", func(r chi.Router) {
		r.Post("/", s.createCollection)
		r.Get("/", s.listCollections)
		r.Route("/{collection}", func(r chi.Router) {
			r.Post("/docs", s.appendDocuments)
			r.Get("/docs", s.listDocuments)
			r.Post("/query", s.runQuery)
			r.Post("/query/page", s.runQueryPage)
		})
	})
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

// createCollection handles POST /v1/collections.
func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.collections.Create(r.Context(), req.Name); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// listCollections handles GET /v1/collections.
func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": names})
}

type appendDocumentsRequest struct {
	Documents []json.RawMessage `json:"documents"`
}

// appendDocuments handles POST /v1/collections/{collection}/docs.
func (s *Server) appendDocuments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req appendDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "documents is required")
		return
	}

	bodies := make([][]byte, len(req.Documents))
	for i, raw := range req.Documents {
		bodies[i] = raw
	}

	docs, err := s.collections.Append(r.Context(), name, bodies...)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID()
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

// listDocuments handles GET /v1/collections/{collection}/docs.
func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	docs, err := s.collections.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		items[i] = doc.JSON()
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

type queryRequest struct {
	Query             string `json:"query"`
	PageSize          int    `json:"page_size,omitempty"`
	ContinuationToken string `json:"continuation_token,omitempty"`
}

// runQuery handles POST /v1/collections/{collection}/query.
func (s *Server) runQuery(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	docs, err := s.queries.Query(r.Context(), name, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		items[i] = doc.JSON()
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// runQueryPage handles POST /v1/collections/{collection}/query/page.
func (s *Server) runQueryPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	docs, next, err := s.queries.QueryPage(r.Context(), name, req.Query, req.PageSize, req.ContinuationToken)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		items[i] = doc.JSON()
	}
	resp := map[string]any{"items": items, "count": len(items)}
	if next != "" {
		resp["continuation_token"] = next
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeQueryRequest(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return queryRequest{}, false
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return queryRequest{}, false
	}
	return req, true
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	sentinels := []error{
		domain.ErrCollectionNotFound,
		domain.ErrCollectionExists,
		domain.ErrInvalidName,
		domain.ErrUnknownFunction,
		domain.ErrUnsupportedComparison,
		domain.ErrInvalidOperand,
		domain.ErrUnsupportedOperator,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// parseErrorHandler maps syntax errors to 400 with the position intact.
func parseErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    codeInvalidQuery,
		"message": msg,
		"line":    pe.Pos.Line,
		"column":  pe.Pos.Column,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
