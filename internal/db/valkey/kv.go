package valkey

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/mallindex/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetMulti stores values in a single DoMulti round-trip.
func (s *Store) SetMulti(ctx context.Context, items []db.KVItem) error {
	if len(items) == 0 {
		return nil
	}
	cmds := make([]rueidis.Completed, len(items))
	keys := make([]string, len(items))
	for i, item := range items {
		cmds[i] = s.b().Set().Key(item.Key).Value(string(item.Value)).Build()
		keys[i] = item.Key
	}
	return s.doMulti(ctx, db.OpSet, keys, cmds)
}
