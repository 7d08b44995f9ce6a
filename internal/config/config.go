package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the mallindex service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Indexing IndexingConfig `yaml:"indexing"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// CurrencyConfig is one entry of the currency registry.
type CurrencyConfig struct {
	ID      int64  `yaml:"id"`
	Code    string `yaml:"code"`
	Default bool   `yaml:"default"`
}

// CustomerGroupConfig is one entry of the customer group registry.
type CustomerGroupConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// PropertyConfig is one entry of the property registry.
type PropertyConfig struct {
	ID   int64  `yaml:"id"`
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// CatalogConfig holds the registries every entry build reads.
type CatalogConfig struct {
	Currencies     []CurrencyConfig      `yaml:"currencies"`
	CustomerGroups []CustomerGroupConfig `yaml:"customer_groups"`
	Properties     []PropertyConfig      `yaml:"properties"` // optional
}

// IndexingConfig holds entry build and ingestion settings.
type IndexingConfig struct {
	Concurrency  int      `yaml:"concurrency"`
	MaxBatchSize int      `yaml:"max_batch_size"`
	Sinks        []string `yaml:"sinks"` // valkey, kafka (default: valkey)
}

// KafkaConfig holds the streaming sink producer settings.
type KafkaConfig struct {
	SeedBrokers []string `yaml:"seed_brokers"`
	Topic       string   `yaml:"topic"`
}

// Sink names accepted in indexing.sinks.
const (
	SinkValkey = "valkey"
	SinkKafka  = "kafka"
)

// HasSink reports whether name is an enabled sink.
func (c IndexingConfig) HasSink(name string) bool {
	return slices.Contains(c.Sinks, name)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the configuration at path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "mallindex:"
	}
	if c.Indexing.Concurrency <= 0 {
		c.Indexing.Concurrency = 4
	}
	if c.Indexing.MaxBatchSize <= 0 {
		c.Indexing.MaxBatchSize = 100
	}
	if len(c.Indexing.Sinks) == 0 {
		c.Indexing.Sinks = []string{SinkValkey}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "mallindex.entries"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if err := c.Catalog.validate(); err != nil {
		return err
	}
	for _, s := range c.Indexing.Sinks {
		switch s {
		case SinkValkey, SinkKafka:
		default:
			return fmt.Errorf("indexing.sinks: unknown sink %q", s)
		}
	}
	if !c.Indexing.HasSink(SinkValkey) {
		return fmt.Errorf("indexing.sinks must include %q", SinkValkey)
	}
	if c.Indexing.HasSink(SinkKafka) && len(c.Kafka.SeedBrokers) == 0 {
		return fmt.Errorf("kafka.seed_brokers is required when the kafka sink is enabled")
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	defaults := 0
	codes := make(map[string]struct{}, len(c.Currencies))
	ids := make(map[int64]struct{}, len(c.Currencies))
	for i, cur := range c.Currencies {
		if cur.Code == "" {
			return fmt.Errorf("catalog.currencies[%d].code is required", i)
		}
		if _, dup := codes[cur.Code]; dup {
			return fmt.Errorf("catalog.currencies: duplicate code %q", cur.Code)
		}
		if _, dup := ids[cur.ID]; dup {
			return fmt.Errorf("catalog.currencies: duplicate id %d", cur.ID)
		}
		codes[cur.Code] = struct{}{}
		ids[cur.ID] = struct{}{}
		if cur.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("catalog.currencies must flag exactly one default, got %d", defaults)
	}

	groups := make(map[int64]struct{}, len(c.CustomerGroups))
	for _, g := range c.CustomerGroups {
		if _, dup := groups[g.ID]; dup {
			return fmt.Errorf("catalog.customer_groups: duplicate id %d", g.ID)
		}
		groups[g.ID] = struct{}{}
	}

	props := make(map[int64]struct{}, len(c.Properties))
	for _, p := range c.Properties {
		if _, dup := props[p.ID]; dup {
			return fmt.Errorf("catalog.properties: duplicate id %d", p.ID)
		}
		props[p.ID] = struct{}{}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
