package mallindex

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	keyPrefix      string
	currencies     []catalog.Currency
	customerGroups []catalog.CustomerGroup
	concurrency    int
	maxBatchSize   int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance with the JSON module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the prefix of every stored key. Default: "mallindex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCurrency registers a currency. Exactly one currency must be the default.
func WithCurrency(id int64, code string, isDefault bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.currencies = append(c.currencies, catalog.Currency{ID: id, Code: code, IsDefault: isDefault})
	})
}

// WithCustomerGroup registers a customer group.
func WithCustomerGroup(id int64, name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.customerGroups = append(c.customerGroups, catalog.CustomerGroup{ID: id, Name: name})
	})
}

// WithConcurrency sets how many entries of a batch are built in parallel.
// Default: 4.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithMaxBatchSize sets the maximum number of variants per batch.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
