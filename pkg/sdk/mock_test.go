package mallindex

import (
	"context"

	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	healthuc "github.com/kailas-cloud/mallindex/internal/usecase/health"
)

// --- indexUseCase mock ---

type mockIndexUC struct {
	buildFn      func(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	indexFn      func(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	indexBatchFn func(ctx context.Context, variants []*catalog.Variant) []dombatch.Result
	getFn        func(ctx context.Context, variantID int64) (map[string]any, error)
	deleteFn     func(ctx context.Context, variantID int64) error
}

func (m *mockIndexUC) Build(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error) {
	return m.buildFn(ctx, v, overlay)
}

func (m *mockIndexUC) Index(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error) {
	return m.indexFn(ctx, v, overlay)
}

func (m *mockIndexUC) IndexBatch(ctx context.Context, variants []*catalog.Variant) []dombatch.Result {
	return m.indexBatchFn(ctx, variants)
}

func (m *mockIndexUC) Get(ctx context.Context, variantID int64) (map[string]any, error) {
	return m.getFn(ctx, variantID)
}

func (m *mockIndexUC) Delete(ctx context.Context, variantID int64) error {
	return m.deleteFn(ctx, variantID)
}

// --- category mocks ---

type mockResolver struct {
	fn func(ctx context.Context, path string) (catalog.Category, error)
}

func (m *mockResolver) Resolve(ctx context.Context, path string) (catalog.Category, error) {
	return m.fn(ctx, path)
}

type mockCategoryWriter struct {
	fn func(ctx context.Context, categories []catalog.Category) error
}

func (m *mockCategoryWriter) Replace(ctx context.Context, categories []catalog.Category) error {
	return m.fn(ctx, categories)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	fn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.fn(ctx)
}
