package mallindex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/mallindex/internal/transport/snapshot"
)

// CategoryService stores the category forest and resolves nested paths.
type CategoryService struct {
	resolver resolverUseCase
	writer   categoryWriter
	obs      *observer
}

// Replace swaps the stored forest for categories. An inconsistent forest
// fails with ErrInvalidSnapshot and leaves the stored one untouched.
func (s *CategoryService) Replace(ctx context.Context, categories []Category) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("categories.replace", start, err) }()

	if err = s.writer.Replace(ctx, snapshot.CategoriesToCatalog(categories)); err != nil {
		return fmt.Errorf("replace categories: %w", err)
	}
	return nil
}

// Resolve finds the category a slash-separated slug path ends at.
// A path that matches nothing fails with ErrCategoryNotFound.
func (s *CategoryService) Resolve(ctx context.Context, path string) (_ Category, err error) {
	start := time.Now()
	defer func() { s.obs.observe("categories.resolve", start, err) }()

	c, err := s.resolver.Resolve(ctx, path)
	if err != nil {
		return Category{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	return snapshot.CategoryFromCatalog(c), nil
}
