package mallindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/db"
	dbValkey "github.com/kailas-cloud/mallindex/internal/db/valkey"
	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	categoryrepo "github.com/kailas-cloud/mallindex/internal/repository/category"
	entryrepo "github.com/kailas-cloud/mallindex/internal/repository/entry"
	"github.com/kailas-cloud/mallindex/internal/repository/registry"
	categoryuc "github.com/kailas-cloud/mallindex/internal/usecase/category"
	entryuc "github.com/kailas-cloud/mallindex/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/mallindex/internal/usecase/health"
	"github.com/kailas-cloud/mallindex/internal/usecase/indexing"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "mallindex:"
)

// Внутренние интерфейсы для подмены в тестах.
type indexUseCase interface {
	Build(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	Index(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error)
	IndexBatch(ctx context.Context, variants []*catalog.Variant) []dombatch.Result
	Get(ctx context.Context, variantID int64) (map[string]any, error)
	Delete(ctx context.Context, variantID int64) error
}

type resolverUseCase interface {
	Resolve(ctx context.Context, path string) (catalog.Category, error)
}

type categoryWriter interface {
	Replace(ctx context.Context, categories []catalog.Category) error
}

// Client is the mallindex embedded entry point.
type Client struct {
	store      db.Store
	indexSvc   indexUseCase
	resolver   resolverUseCase
	categories categoryWriter
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("mallindex: database address required (use WithValkey or WithRedis)")
	}

	reg := registry.NewStatic(cfg.customerGroups, cfg.currencies)
	if _, err := reg.DefaultCurrency(ctx); err != nil {
		return nil, fmt.Errorf("mallindex: %w", err)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mallindex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, reg, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		// Both servers speak the same protocol; one rueidis store serves either.
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("mallindex: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("mallindex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, reg *registry.Static, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	builder := entryuc.NewBuilder(reg, reg, logger)
	entries := entryrepo.New(store, cfg.keyPrefix)
	indexSvc := indexing.New(builder, entries, []indexing.Sink{entries}, logger)
	if cfg.concurrency > 0 {
		indexSvc = indexSvc.WithConcurrency(cfg.concurrency)
	}
	if cfg.maxBatchSize > 0 {
		indexSvc = indexSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	categories := categoryrepo.New(store, cfg.keyPrefix)

	return &Client{
		store:      store,
		indexSvc:   indexSvc,
		resolver:   categoryuc.NewResolver(categories, logger),
		categories: categories,
		healthSvc:  healthuc.New(store, nil),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Entries returns the entry service.
func (c *Client) Entries() *EntryService {
	return &EntryService{svc: c.indexSvc, obs: c.obs}
}

// Categories returns the category tree service.
func (c *Client) Categories() *CategoryService {
	return &CategoryService{resolver: c.resolver, writer: c.categories, obs: c.obs}
}
