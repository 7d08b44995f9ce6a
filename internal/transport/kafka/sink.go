// Package kafka publishes index entries to a compacted Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
)

// SinkName identifies this sink in metrics and logs.
const SinkName = "kafka"

// ProducerClient is the subset of *kgo.Client the sink needs.
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Close()
}

// Config holds the producer connection settings.
type Config struct {
	SeedBrokers []string
	Topic       string
}

// Sink writes one record per entry keyed by the entry key, so a compacted
// topic keeps the latest document per key. Deletes are tombstones.
type Sink struct {
	cl     ProducerClient
	logger *zap.Logger
}

// NewClient creates a kgo client producing to cfg.Topic and pings the cluster.
func NewClient(ctx context.Context, cfg Config) (*kgo.Client, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.SeedBrokers...),
		kgo.DefaultProduceTopicAlways(),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping: %w", err)
	}
	return cl, nil
}

// NewSink creates a sink over cl.
func NewSink(cl ProducerClient, logger *zap.Logger) *Sink {
	return &Sink{cl: cl, logger: logger}
}

// Name implements indexing.Sink.
func (s *Sink) Name() string { return SinkName }

// Upsert produces all entries synchronously.
func (s *Sink) Upsert(ctx context.Context, entries []domentry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rs := make([]*kgo.Record, len(entries))
	for i, e := range entries {
		value, err := json.Marshal(e.Data())
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Key(), err)
		}
		rs[i] = &kgo.Record{Key: []byte(e.Key()), Value: value}
	}
	if err := s.cl.ProduceSync(ctx, rs...).FirstErr(); err != nil {
		return fmt.Errorf("produce %d records: %w", len(rs), err)
	}
	return nil
}

// Delete produces a tombstone for key.
func (s *Sink) Delete(ctx context.Context, key string) error {
	if err := s.cl.ProduceSync(ctx, &kgo.Record{Key: []byte(key)}).FirstErr(); err != nil {
		return fmt.Errorf("produce tombstone %s: %w", key, err)
	}
	return nil
}

// HealthCheck pings the brokers.
func (s *Sink) HealthCheck(ctx context.Context) error {
	return s.cl.Ping(ctx)
}

// Close closes the underlying client.
func (s *Sink) Close() {
	s.logger.Info("Closing kafka producer")
	s.cl.Close()
}
