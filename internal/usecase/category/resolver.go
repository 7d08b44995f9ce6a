package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	"github.com/kailas-cloud/mallindex/internal/metrics"
)

// Resolver maps nested slug paths such as "shoes/running/trail" to categories.
type Resolver struct {
	store  TreeStore
	logger *zap.Logger
}

// NewResolver creates a resolver over store. The store must not change while a
// single Resolve call walks it.
func NewResolver(store TreeStore, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve walks the tree from a root through every path segment in order.
// Unmatched paths, including the empty path, return domain.ErrCategoryNotFound.
func (r *Resolver) Resolve(ctx context.Context, path string) (catalog.Category, error) {
	segments := Segments(path)
	if len(segments) == 0 {
		metrics.CategoryResolveTotal.WithLabelValues(metrics.ResolveNotFound).Inc()
		return catalog.Category{}, fmt.Errorf("empty path: %w", domain.ErrCategoryNotFound)
	}

	node, err := r.store.FindRoot(ctx, segments[0])
	if err != nil {
		return catalog.Category{}, r.fail(path, 0, err)
	}

	for i, seg := range segments[1:] {
		node, err = r.store.FindChild(ctx, node.ID, seg)
		if err != nil {
			return catalog.Category{}, r.fail(path, i+1, err)
		}
	}

	metrics.CategoryResolveTotal.WithLabelValues(metrics.ResolveFound).Inc()
	return node, nil
}

func (r *Resolver) fail(path string, depth int, err error) error {
	if errors.Is(err, domain.ErrCategoryNotFound) {
		metrics.CategoryResolveTotal.WithLabelValues(metrics.ResolveNotFound).Inc()
		return fmt.Errorf("path %q at depth %d: %w", path, depth, err)
	}
	metrics.CategoryResolveTotal.WithLabelValues(metrics.ResolveError).Inc()
	r.logger.Error("Category lookup failed",
		zap.String("path", path),
		zap.Int("depth", depth),
		zap.Error(err),
	)
	return fmt.Errorf("resolve %q: %w", path, err)
}

// Segments normalizes path into its non-empty slug segments.
func Segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
