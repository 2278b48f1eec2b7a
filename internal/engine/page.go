package engine

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/kailas-cloud/docql/internal/domain/document"
)

// pageToken is the decoded continuation token: a position inside one
// (query text, page size) pairing's deterministic result sequence.
// Self-contained, so pagination survives process restarts.
type pageToken struct {
	QueryHash uint64 `json:"q"`
	PageSize  int    `json:"ps"`
	Offset    int    `json:"off"`
}

// Paginator slices full pipeline output into bounded pages. Each page
// request re-runs the pipeline; filter and order are deterministic, so
// the result sequence is reproducible.
type Paginator struct {
	engine *Engine
}

// NewPaginator creates a paginator over an engine.
func NewPaginator(e *Engine) *Paginator {
	return &Paginator{engine: e}
}

// Page returns one contiguous slice of the query's result sequence.
// An empty, malformed, or foreign token starts from the beginning
// rather than failing. nextToken is empty when the page reaches the
// end of the sequence.
func (p *Paginator) Page(
	queryText string, docs []document.Document, pageSize int, token string,
) (page []document.Document, nextToken string, err error) {
	if pageSize <= 0 {
		return nil, "", fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	results, err := p.engine.Run(queryText, docs)
	if err != nil {
		return nil, "", err
	}

	hash := queryHash(queryText)
	offset := decodeOffset(token, hash, pageSize)
	if offset > len(results) {
		offset = len(results)
	}

	end := offset + pageSize
	if end > len(results) {
		end = len(results)
	}
	page = results[offset:end]

	if end < len(results) {
		nextToken = encodeToken(pageToken{QueryHash: hash, PageSize: pageSize, Offset: end})
	}
	return page, nextToken, nil
}

func queryHash(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}

func encodeToken(tok pageToken) string {
	data, _ := json.Marshal(tok)
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeOffset recovers the offset from a token. Anything that does
// not decode to a token minted for this query text and page size means
// a fresh start at offset zero.
func decodeOffset(token string, hash uint64, pageSize int) int {
	if token == "" {
		return 0
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	var tok pageToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return 0
	}
	if tok.QueryHash != hash || tok.PageSize != pageSize || tok.Offset < 0 {
		return 0
	}
	return tok.Offset
}
