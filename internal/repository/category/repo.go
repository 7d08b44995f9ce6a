package category

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/mallindex/internal/db"
	"github.com/kailas-cloud/mallindex/internal/domain"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// store is the consumer interface for categories (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SetMulti(ctx context.Context, items []db.KVItem) error
}

// Repo keeps the category forest in Valkey: one hash per node plus
// slug lookup keys holding node ids.
type Repo struct {
	store  store
	prefix string
}

// New creates a category repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Replace swaps the stored forest for categories. The input is validated
// as a Tree first so nothing is written for an inconsistent forest.
func (r *Repo) Replace(ctx context.Context, categories []catalog.Category) error {
	tree, err := NewTree(categories)
	if err != nil {
		return err
	}

	existing, err := r.store.Scan(ctx, r.prefix+"category:*")
	if err != nil {
		return fmt.Errorf("scan categories: %w", err)
	}
	if err := r.store.DelMulti(ctx, existing); err != nil {
		return fmt.Errorf("delete %d category keys: %w", len(existing), err)
	}

	nodes := tree.Categories()
	hashes := make([]db.HashSetItem, len(nodes))
	lookups := make([]db.KVItem, len(nodes))
	for i, c := range nodes {
		hashes[i] = db.HashSetItem{Key: r.nodeKey(c.ID), Fields: toHash(c)}
		id := []byte(strconv.FormatInt(c.ID, 10))
		if c.IsRoot() {
			lookups[i] = db.KVItem{Key: r.rootKey(c.Slug), Value: id}
		} else {
			lookups[i] = db.KVItem{Key: r.childKey(*c.ParentID, c.Slug), Value: id}
		}
	}

	if err := r.store.HSetMulti(ctx, hashes); err != nil {
		return fmt.Errorf("hset %d categories: %w", len(hashes), err)
	}
	if err := r.store.SetMulti(ctx, lookups); err != nil {
		return fmt.Errorf("set %d category lookups: %w", len(lookups), err)
	}
	return nil
}

// FindRoot implements the resolver's tree store.
func (r *Repo) FindRoot(ctx context.Context, slug string) (catalog.Category, error) {
	return r.findBy(ctx, r.rootKey(slug))
}

// FindChild implements the resolver's tree store.
func (r *Repo) FindChild(ctx context.Context, parentID int64, slug string) (catalog.Category, error) {
	return r.findBy(ctx, r.childKey(parentID, slug))
}

func (r *Repo) findBy(ctx context.Context, lookupKey string) (catalog.Category, error) {
	raw, err := r.store.Get(ctx, lookupKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return catalog.Category{}, fmt.Errorf("%s: %w", lookupKey, domain.ErrCategoryNotFound)
		}
		return catalog.Category{}, fmt.Errorf("get %s: %w", lookupKey, err)
	}

	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("parse id at %s: %w", lookupKey, err)
	}

	key := r.nodeKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		// Lookup key outlived its node.
		return catalog.Category{}, fmt.Errorf("%s: %w", key, domain.ErrCategoryNotFound)
	}
	return fromHash(fields)
}

func (r *Repo) nodeKey(id int64) string {
	return r.prefix + "category:" + strconv.FormatInt(id, 10)
}

func (r *Repo) rootKey(slug string) string {
	return r.prefix + "category:root:" + slug
}

func (r *Repo) childKey(parentID int64, slug string) string {
	return r.prefix + "category:child:" + strconv.FormatInt(parentID, 10) + ":" + slug
}
