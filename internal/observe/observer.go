// Package observe defines the diagnostics hook points the query core
// calls into. The sink is injected at construction; a missing sink is
// a no-op, never a fault.
package observe

import "github.com/kailas-cloud/docql/internal/domain/query"

// Observer receives structured diagnostics from the parser-to-pipeline
// path. Implementations must be cheap: the Predicate hook fires once
// per scanned document.
type Observer interface {
	// ParseStart fires before query text is parsed.
	ParseStart(text string)
	// ParseEnd fires after parsing with the outcome.
	ParseEnd(q *query.ParsedQuery, err error)
	// Predicate fires after the WHERE tree is evaluated for one
	// document. err is the evaluation error, nil when clean.
	Predicate(docID string, match bool, err error)
	// Stage fires at each pipeline stage boundary with document counts
	// entering and leaving the stage.
	Stage(name string, in, out int)
}

// Nop discards all hooks.
type Nop struct{}

// ParseStart implements Observer.
func (Nop) ParseStart(string) {}

// ParseEnd implements Observer.
func (Nop) ParseEnd(*query.ParsedQuery, error) {}

// Predicate implements Observer.
func (Nop) Predicate(string, bool, error) {}

// Stage implements Observer.
func (Nop) Stage(string, int, int) {}

// OrNop substitutes Nop for a nil observer so callers never branch.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop{}
	}
	return o
}
