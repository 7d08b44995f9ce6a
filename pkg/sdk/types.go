package mallindex

import "github.com/kailas-cloud/mallindex/internal/transport/snapshot"

// Snapshot types share the JSON shape accepted by the HTTP API.
type (
	Variant       = snapshot.Variant
	Product       = snapshot.Product
	Price         = snapshot.Price
	GroupPrice    = snapshot.GroupPrice
	PropertyValue = snapshot.PropertyValue
	Brand         = snapshot.Brand
	Category      = snapshot.Category
)

// Entry is a built index entry.
type Entry struct {
	Key      string
	Document map[string]any
}

// BatchResult is the outcome of one variant of IndexBatch.
// Err is nil when the variant was indexed.
type BatchResult struct {
	VariantID int64
	Key       string
	Err       error
}
