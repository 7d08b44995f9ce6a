package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/mallindex/internal/db"
	"github.com/kailas-cloud/mallindex/internal/domain"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// SinkName identifies this repository in metrics and logs.
const SinkName = "valkey"

// store is the consumer interface for entries (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo stores index entries as JSON documents keyed by entry key.
type Repo struct {
	store  store
	prefix string
}

// New creates an entry repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Name implements indexing.Sink.
func (r *Repo) Name() string { return SinkName }

// Upsert writes all entries in one pipeline; existing documents are replaced.
func (r *Repo) Upsert(ctx context.Context, entries []domentry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	items := make([]db.JSONSetItem, len(entries))
	for i, e := range entries {
		data, err := encodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Key(), err)
		}
		items[i] = db.JSONSetItem{Key: r.key(e.Key()), Path: "$", Data: data}
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set %d entries: %w", len(items), err)
	}
	return nil
}

// Get returns the stored document of an entry key.
func (r *Repo) Get(ctx context.Context, entryKey string) (map[string]any, error) {
	key := r.key(entryKey)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeJSONGetResult(raw)
}

// Delete removes an entry.
func (r *Repo) Delete(ctx context.Context, entryKey string) error {
	key := r.key(entryKey)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrEntryNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(entryKey string) string {
	return r.prefix + entryKey
}
