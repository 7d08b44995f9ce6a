package mallindex

import (
	"context"
	"fmt"
	"time"

	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// EntryService builds, stores and removes variant entries.
type EntryService struct {
	svc indexUseCase
	obs *observer
}

// Build assembles the entry of v without writing it. A non-empty overlay is
// merged over the built document.
func (s *EntryService) Build(ctx context.Context, v *Variant, overlay map[string]any) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("entries.build", start, err) }()

	cv, err := toCatalog(v)
	if err != nil {
		return Entry{}, err
	}
	e, err := s.svc.Build(ctx, cv, overlay)
	if err != nil {
		return Entry{}, fmt.Errorf("build: %w", err)
	}
	return entryFromDomain(e), nil
}

// Index builds the entry of v and writes it.
func (s *EntryService) Index(ctx context.Context, v *Variant, overlay map[string]any) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("entries.index", start, err) }()

	cv, err := toCatalog(v)
	if err != nil {
		return Entry{}, err
	}
	e, err := s.svc.Index(ctx, cv, overlay)
	if err != nil {
		return Entry{}, fmt.Errorf("index: %w", err)
	}
	return entryFromDomain(e), nil
}

// IndexBatch indexes variants and reports one result per input, in order.
func (s *EntryService) IndexBatch(ctx context.Context, variants []Variant) []BatchResult {
	start := time.Now()

	results := make([]BatchResult, len(variants))
	converted := make([]*catalog.Variant, 0, len(variants))
	idx := make([]int, 0, len(variants))
	for i := range variants {
		cv, err := variants[i].ToCatalog()
		if err != nil {
			results[i] = BatchResult{VariantID: variants[i].ID, Err: err}
			continue
		}
		converted = append(converted, cv)
		idx = append(idx, i)
	}

	var failed error
	if len(converted) > 0 {
		for j, r := range s.svc.IndexBatch(ctx, converted) {
			results[idx[j]] = batchResultFromDomain(r)
			if r.Err() != nil && failed == nil {
				failed = r.Err()
			}
		}
	}
	s.obs.observe("entries.index_batch", start, failed)
	return results
}

// Get returns the stored document of a variant.
func (s *EntryService) Get(ctx context.Context, variantID int64) (_ map[string]any, err error) {
	start := time.Now()
	defer func() { s.obs.observe("entries.get", start, err) }()

	doc, err := s.svc.Get(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return doc, nil
}

// Delete removes the entry of a variant.
func (s *EntryService) Delete(ctx context.Context, variantID int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("entries.delete", start, err) }()

	if err = s.svc.Delete(ctx, variantID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func toCatalog(v *Variant) (*catalog.Variant, error) {
	if v == nil {
		return nil, fmt.Errorf("variant is nil: %w", ErrInvalidSnapshot)
	}
	return v.ToCatalog()
}

func entryFromDomain(e domentry.Entry) Entry {
	return Entry{Key: e.Key(), Document: e.Data()}
}

func batchResultFromDomain(r dombatch.Result) BatchResult {
	return BatchResult{VariantID: r.VariantID(), Key: r.Key(), Err: r.Err()}
}
