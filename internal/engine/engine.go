// Package engine runs parsed queries against document collections:
// filter, stable multi-key ordering, limit, and projection, in that
// order, each stage total before the next begins.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/domain/query"
	"github.com/kailas-cloud/docql/internal/domain/value"
	"github.com/kailas-cloud/docql/internal/eval"
	"github.com/kailas-cloud/docql/internal/observe"
	"github.com/kailas-cloud/docql/internal/parser"
)

// Mode selects the policy for per-document evaluation errors.
type Mode int

const (
	// ModeLenient excludes a document whose predicate evaluation hit a
	// type mismatch, instead of failing the query.
	ModeLenient Mode = iota
	// ModeStrict propagates per-document evaluation errors as
	// query-level errors.
	ModeStrict
)

// Engine executes parsed queries. It holds no per-query state; one
// Engine serves concurrent queries as long as the caller keeps the
// document collection stable during a scan.
type Engine struct {
	mode Mode
	obs  observe.Observer
}

// New creates an engine. obs may be nil.
func New(mode Mode, obs observe.Observer) *Engine {
	return &Engine{mode: mode, obs: observe.OrNop(obs)}
}

// Run parses query text and executes it against docs.
func (e *Engine) Run(text string, docs []document.Document) ([]document.Document, error) {
	e.obs.ParseStart(text)
	q, err := parser.Parse(text)
	e.obs.ParseEnd(q, err)
	if err != nil {
		return nil, err
	}
	return e.Execute(q, docs)
}

// Execute runs the pipeline over docs. The input slice and its
// documents are never mutated; projection builds fresh documents.
func (e *Engine) Execute(q *query.ParsedQuery, docs []document.Document) ([]document.Document, error) {
	filtered, err := e.filter(q, docs)
	if err != nil {
		return nil, err
	}

	ordered := e.order(q, filtered)

	limited := ordered
	if q.Limit != nil && *q.Limit < len(limited) {
		limited = limited[:*q.Limit]
	}
	e.obs.Stage("limit", len(ordered), len(limited))

	projected := e.project(q, limited)
	e.obs.Stage("project", len(limited), len(projected))
	return projected, nil
}

func (e *Engine) filter(q *query.ParsedQuery, docs []document.Document) ([]document.Document, error) {
	kept := make([]document.Document, 0, len(docs))
	if q.Where == nil {
		kept = append(kept, docs...)
		e.obs.Stage("filter", len(docs), len(kept))
		return kept, nil
	}

	for _, doc := range docs {
		match, err := eval.Predicate(doc, q.Where)
		if err != nil {
			e.obs.Predicate(doc.ID(), false, err)
			if e.mode == ModeLenient && eval.Recoverable(err) {
				continue
			}
			return nil, fmt.Errorf("evaluate predicate for document %q: %w", doc.ID(), err)
		}
		e.obs.Predicate(doc.ID(), match, nil)
		if match {
			kept = append(kept, doc)
		}
	}
	e.obs.Stage("filter", len(docs), len(kept))
	return kept, nil
}

// order sorts by the ORDER BY keys in priority order. The sort is
// stable, so ties keep filtered-sequence order.
func (e *Engine) order(q *query.ParsedQuery, docs []document.Document) []document.Document {
	if len(q.OrderBy) == 0 {
		return docs
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range q.OrderBy {
			cmp := compareSortValues(docs[i].Lookup(key.Path), docs[j].Lookup(key.Path))
			if cmp == 0 {
				continue
			}
			if key.Direction == query.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	e.obs.Stage("order", len(docs), len(docs))
	return docs
}

// sortRank assigns the cross-kind ordering used only by ORDER BY:
// undefined sorts before everything, then null, booleans, numbers,
// strings, and composites last.
func sortRank(k value.Kind) int {
	switch k {
	case value.Undefined:
		return 0
	case value.Null:
		return 1
	case value.Bool:
		return 2
	case value.Int, value.Float:
		return 3
	case value.String:
		return 4
	case value.Array:
		return 5
	default: // Object
		return 6
	}
}

// compareSortValues is a total order over all value kinds. Within a
// kind it follows the comparison semantics of the ordering operators;
// across kinds it falls back to sortRank so sorting never errors.
func compareSortValues(a, b value.Value) int {
	ra, rb := sortRank(a.Kind()), sortRank(b.Kind())
	if ra != rb {
		return cmpInt(ra, rb)
	}

	switch {
	case a.IsNumber():
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case a.Kind() == value.String:
		return strings.Compare(strings.ToLower(a.Str()), strings.ToLower(b.Str()))
	case a.Kind() == value.Bool:
		return cmpBool(a.Bool(), b.Bool())
	case a.Kind() == value.Array, a.Kind() == value.Object:
		return strings.Compare(a.Text(), b.Text())
	default: // Undefined, Null
		return 0
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// project builds output documents. The wildcard passes documents
// through; otherwise each result carries its id first plus the
// selected paths, written at their alias-stripped positions. Paths
// resolving to Undefined are dropped.
func (e *Engine) project(q *query.ParsedQuery, docs []document.Document) []document.Document {
	if q.IsWildcard() {
		return docs
	}

	out := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		obj := &value.Obj{}
		if id := doc.Body().Get(document.IDField); id.IsDefined() {
			obj.Set(document.IDField, id)
		}
		for _, path := range q.Projection {
			v := doc.Lookup(path)
			if !v.IsDefined() {
				continue
			}
			obj.SetPath(path, v)
		}
		out = append(out, document.Reconstruct(obj))
	}
	return out
}
