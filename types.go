package docql

import (
	"encoding/json"

	"github.com/kailas-cloud/docql/internal/domain/document"
)

// Document is one stored or query-result record.
type Document struct {
	inner document.Document
}

// ID returns the document identifier.
func (d Document) ID() string { return d.inner.ID() }

// JSON renders the document as compact JSON with field order preserved.
func (d Document) JSON() []byte { return d.inner.JSON() }

// Unmarshal decodes the document into v via encoding/json.
func (d Document) Unmarshal(v any) error {
	return json.Unmarshal(d.inner.JSON(), v) //nolint:wrapcheck
}

func wrapDocuments(docs []document.Document) []Document {
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = Document{inner: doc}
	}
	return out
}
