package valkey

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/mallindex/internal/db"
)

// JSONSet stores a JSON document at the given key and path.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if err := s.do(ctx, s.jsonSetCmd(key, path, data)).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// JSONSetMulti stores multiple JSON documents in a single DoMulti round-trip.
func (s *Store) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	if len(items) == 0 {
		return nil
	}
	cmds := make([]rueidis.Completed, len(items))
	keys := make([]string, len(items))
	for i, item := range items {
		cmds[i] = s.jsonSetCmd(item.Key, item.Path, item.Data)
		keys[i] = item.Key
	}
	return s.doMulti(ctx, db.OpJSONSet, keys, cmds)
}

func (s *Store) jsonSetCmd(key, path string, data []byte) rueidis.Completed {
	return s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
}

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(paths...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}
