package entry

import (
	"encoding/json"
	"maps"
	"strconv"
)

// Entry is a document producer for one source entity.
type Entry interface {
	// Key identifies the entry within the index (upsert-by-id).
	Key() string
	// Data returns the document with all overlays applied.
	Data() map[string]any
	// WithData returns an entry with overlay shallow-merged over the current data.
	WithData(overlay map[string]any) Entry
}

// VariantEntry is the Entry built from a variant.
type VariantEntry struct {
	doc     Document
	overlay map[string]any
}

var _ Entry = (*VariantEntry)(nil)

// NewVariantEntry wraps a built document.
func NewVariantEntry(doc Document) *VariantEntry {
	return &VariantEntry{doc: doc}
}

// Document returns a copy of the typed document without overlays.
func (e *VariantEntry) Document() Document { return e.doc.Clone() }

// Key returns "<index>:<variant id>".
func (e *VariantEntry) Key() string {
	return DocumentKey(e.doc.Index, e.doc.ID)
}

// Data returns the flattened document; overlay keys replace existing ones.
func (e *VariantEntry) Data() map[string]any {
	m := e.doc.Map()
	maps.Copy(m, e.overlay)
	return m
}

// WithData merges overlay over the current data, last write wins.
// The receiver is left untouched.
func (e *VariantEntry) WithData(overlay map[string]any) Entry {
	merged := make(map[string]any, len(e.overlay)+len(overlay))
	maps.Copy(merged, e.overlay)
	maps.Copy(merged, overlay)
	return &VariantEntry{doc: e.doc, overlay: merged}
}

// MarshalJSON encodes Data.
func (e *VariantEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Data())
}

// DocumentKey builds the entry key for an index and id.
func DocumentKey(index string, id int64) string {
	return index + ":" + strconv.FormatInt(id, 10)
}
