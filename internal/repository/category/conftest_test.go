package category

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/mallindex/internal/db"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// memStore is a map-backed store for tests. Hooks override single methods.
type memStore struct {
	hashes map[string]map[string]string
	kv     map[string][]byte

	scanFn func(ctx context.Context, pattern string) ([]string, error)
	getFn  func(ctx context.Context, key string) ([]byte, error)
}

func newMemStore() *memStore {
	return &memStore{hashes: map[string]map[string]string{}, kv: map[string][]byte{}}
}

func (m *memStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	return h, nil
}

func (m *memStore) DelMulti(_ context.Context, keys []string) error {
	for _, k := range keys {
		delete(m.hashes, k)
		delete(m.kv, k)
	}
	return nil
}

func (m *memStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range m.kv {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetMulti(_ context.Context, items []db.KVItem) error {
	for _, it := range items {
		m.kv[it.Key] = it.Value
	}
	return nil
}

func ptr(v int64) *int64 { return &v }

// forest: parent(1) -> child(2) -> child(3); other(4) -> child(5).
func testForest(t *testing.T) []catalog.Category {
	t.Helper()
	return []catalog.Category{
		{ID: 1, Slug: "parent", Name: "Parent"},
		{ID: 2, ParentID: ptr(1), Slug: "child", Name: "Child"},
		{ID: 3, ParentID: ptr(2), Slug: "child", Name: "Grandchild"},
		{ID: 4, Slug: "other", Name: "Other"},
		{ID: 5, ParentID: ptr(4), Slug: "child", Name: "Other child"},
	}
}
