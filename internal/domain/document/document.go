// Package document holds the document aggregate stored in collections
// and flowing through the query pipeline.
package document

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docql/internal/domain/value"
)

// IDField is the reserved identifier field every stored document carries.
const IDField = "id"

// Document is one JSON-like record. It wraps an order-preserving
// object; immutable once stored (the pipeline never mutates inputs).
type Document struct {
	obj *value.Obj
}

// New creates a Document from an object, assigning a generated UUID id
// when the object carries none.
func New(obj *value.Obj) (Document, error) {
	if obj == nil {
		return Document{}, fmt.Errorf("document body is required")
	}
	if !obj.Has(IDField) {
		obj.Set(IDField, value.NewString(uuid.NewString()))
	}
	return Document{obj: obj}, nil
}

// FromJSON parses a JSON object into a Document.
func FromJSON(data []byte) (Document, error) {
	obj, err := value.DecodeJSONObject(data)
	if err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	return New(obj)
}

// Reconstruct wraps an object without id assignment (storage hydration
// and pipeline-internal construction).
func Reconstruct(obj *value.Obj) Document {
	return Document{obj: obj}
}

// ID returns the textual form of the id field, empty when absent.
func (d Document) ID() string {
	return d.obj.Get(IDField).Text()
}

// Body returns the underlying object. Callers must treat it as
// read-only.
func (d Document) Body() *value.Obj { return d.obj }

// Lookup resolves a dotted property path against the document body.
func (d Document) Lookup(path string) value.Value {
	if d.obj == nil {
		return value.NewUndefined()
	}
	return d.obj.Lookup(path)
}

// JSON renders the document as compact JSON with field order preserved.
func (d Document) JSON() []byte {
	return value.EncodeJSON(value.NewObject(d.obj))
}
