package indexing

import (
	"context"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// EntryBuilder builds the index entry of a variant.
type EntryBuilder interface {
	Build(ctx context.Context, v *catalog.Variant) (*domentry.VariantEntry, error)
}

// Sink ingests entries with upsert-by-key semantics.
type Sink interface {
	Name() string
	Upsert(ctx context.Context, entries []domentry.Entry) error
	Delete(ctx context.Context, key string) error
}

// EntryReader fetches a stored document by entry key.
type EntryReader interface {
	Get(ctx context.Context, key string) (map[string]any, error)
}
