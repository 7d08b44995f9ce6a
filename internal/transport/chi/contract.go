package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	healthuc "github.com/kailas-cloud/mallindex/internal/usecase/health"
)

// Indexer builds and ingests variant entries.
type Indexer interface {
	Build(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	Index(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	IndexBatch(ctx context.Context, variants []*catalog.Variant) []dombatch.Result
	Get(ctx context.Context, variantID int64) (map[string]any, error)
	Delete(ctx context.Context, variantID int64) error
}

// CategoryResolver resolves nested slug paths.
type CategoryResolver interface {
	Resolve(ctx context.Context, path string) (catalog.Category, error)
}

// CategoryWriter replaces the stored category forest.
type CategoryWriter interface {
	Replace(ctx context.Context, categories []catalog.Category) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
