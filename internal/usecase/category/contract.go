package category

import (
	"context"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// TreeStore looks up single category nodes. Both lookups return
// domain.ErrCategoryNotFound when nothing matches; any other error is a
// storage fault.
type TreeStore interface {
	FindRoot(ctx context.Context, slug string) (catalog.Category, error)
	FindChild(ctx context.Context, parentID int64, slug string) (catalog.Category, error)
}
