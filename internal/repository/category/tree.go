// Package category stores the category forest and answers single-node lookups
// for the path resolver.
package category

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

type childKey struct {
	parentID int64
	slug     string
}

// Tree is an immutable in-memory category forest indexed by (parent, slug).
type Tree struct {
	nodes    []catalog.Category
	roots    map[string]int
	children map[childKey]int
}

// NewTree indexes categories. Sibling slugs must be unique and every parent
// must be present.
func NewTree(categories []catalog.Category) (*Tree, error) {
	t := &Tree{
		nodes:    append([]catalog.Category(nil), categories...),
		roots:    make(map[string]int),
		children: make(map[childKey]int),
	}

	ids := make(map[int64]struct{}, len(t.nodes))
	for _, c := range t.nodes {
		if _, dup := ids[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d: %w", c.ID, domain.ErrInvalidSnapshot)
		}
		ids[c.ID] = struct{}{}
	}

	for i, c := range t.nodes {
		if c.Slug == "" {
			return nil, fmt.Errorf("category %d has empty slug: %w", c.ID, domain.ErrInvalidSnapshot)
		}
		if c.IsRoot() {
			if _, dup := t.roots[c.Slug]; dup {
				return nil, fmt.Errorf("duplicate root slug %q: %w", c.Slug, domain.ErrInvalidSnapshot)
			}
			t.roots[c.Slug] = i
			continue
		}
		if _, ok := ids[*c.ParentID]; !ok {
			return nil, fmt.Errorf("category %d: unknown parent %d: %w", c.ID, *c.ParentID, domain.ErrInvalidSnapshot)
		}
		k := childKey{parentID: *c.ParentID, slug: c.Slug}
		if _, dup := t.children[k]; dup {
			return nil, fmt.Errorf("duplicate slug %q under parent %d: %w", c.Slug, *c.ParentID, domain.ErrInvalidSnapshot)
		}
		t.children[k] = i
	}
	return t, nil
}

// Categories returns a copy of all nodes in input order.
func (t *Tree) Categories() []catalog.Category {
	return append([]catalog.Category(nil), t.nodes...)
}

// FindRoot returns the root category with slug.
func (t *Tree) FindRoot(_ context.Context, slug string) (catalog.Category, error) {
	i, ok := t.roots[slug]
	if !ok {
		return catalog.Category{}, fmt.Errorf("root %q: %w", slug, domain.ErrCategoryNotFound)
	}
	return t.nodes[i], nil
}

// FindChild returns the direct child of parentID with slug.
func (t *Tree) FindChild(_ context.Context, parentID int64, slug string) (catalog.Category, error) {
	i, ok := t.children[childKey{parentID: parentID, slug: slug}]
	if !ok {
		return catalog.Category{}, fmt.Errorf("child %q of %d: %w", slug, parentID, domain.ErrCategoryNotFound)
	}
	return t.nodes[i], nil
}
