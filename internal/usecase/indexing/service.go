package indexing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/mallindex/internal/domain"
	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	"github.com/kailas-cloud/mallindex/internal/metrics"
)

// Defaults for batch indexing.
const (
	DefaultConcurrency  = 4
	DefaultMaxBatchSize = 100
)

const (
	statusOK    = "ok"
	statusError = "error"
	opUpsert    = "upsert"
	opDelete    = "delete"
)

// Service builds variant entries and hands them to the configured sinks.
type Service struct {
	builder      EntryBuilder
	reader       EntryReader
	sinks        []Sink
	logger       *zap.Logger
	concurrency  int
	maxBatchSize int
}

// New creates an indexing service. Sinks are written in order; reader serves Get.
func New(builder EntryBuilder, reader EntryReader, sinks []Sink, logger *zap.Logger) *Service {
	return &Service{
		builder:      builder,
		reader:       reader,
		sinks:        sinks,
		logger:       logger,
		concurrency:  DefaultConcurrency,
		maxBatchSize: DefaultMaxBatchSize,
	}
}

// WithConcurrency sets how many batch items are built in parallel.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Build builds the entry of v and applies overlay without writing it anywhere.
func (s *Service) Build(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error) {
	start := time.Now()
	e, err := s.builder.Build(ctx, v)
	metrics.EntryBuildDuration.WithLabelValues(domentry.IndexVariants).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EntryBuildsTotal.WithLabelValues(domentry.IndexVariants, statusError).Inc()
		return nil, err
	}
	metrics.EntryBuildsTotal.WithLabelValues(domentry.IndexVariants, statusOK).Inc()

	if len(overlay) == 0 {
		return e, nil
	}
	return e.WithData(overlay), nil
}

// Index builds the entry of v and upserts it into every sink.
func (s *Service) Index(ctx context.Context, v *catalog.Variant, overlay map[string]any) (domentry.Entry, error) {
	e, err := s.Build(ctx, v, overlay)
	if err != nil {
		return nil, err
	}
	if err := s.upsert(ctx, []domentry.Entry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// IndexBatch builds variants concurrently and upserts the successful entries
// in one write per sink. Results keep input order. Variants must not share a
// Product value since building materializes it in place.
func (s *Service) IndexBatch(ctx context.Context, variants []*catalog.Variant) []dombatch.Result {
	results := make([]dombatch.Result, len(variants))

	if len(variants) > s.maxBatchSize {
		for i, v := range variants {
			results[i] = dombatch.NewError(variantID(v),
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrBatchTooLarge))
		}
		return results
	}

	entries := make([]domentry.Entry, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, v := range variants {
		g.Go(func() error {
			e, err := s.Build(gctx, v, nil)
			if err != nil {
				results[i] = dombatch.NewError(variantID(v), err)
				return nil
			}
			entries[i] = e
			return nil
		})
	}
	_ = g.Wait()

	built := make([]domentry.Entry, 0, len(entries))
	builtIdx := make([]int, 0, len(entries))
	for i, e := range entries {
		if e != nil {
			built = append(built, e)
			builtIdx = append(builtIdx, i)
		}
	}
	if len(built) == 0 {
		return results
	}

	if err := s.upsert(ctx, built); err != nil {
		for _, i := range builtIdx {
			results[i] = dombatch.NewError(variants[i].ID, err)
		}
		return results
	}

	for _, i := range builtIdx {
		results[i] = dombatch.NewIndexed(variants[i].ID, entries[i].Key())
	}

	s.logger.Info("Batch indexed",
		zap.Int("items", len(variants)),
		zap.Int("indexed", len(built)),
	)
	return results
}

// Get returns the stored document of a variant.
func (s *Service) Get(ctx context.Context, variantID int64) (map[string]any, error) {
	doc, err := s.reader.Get(ctx, domentry.DocumentKey(domentry.IndexVariants, variantID))
	if err != nil {
		return nil, fmt.Errorf("get variant %d: %w", variantID, err)
	}
	return doc, nil
}

// Delete removes the variant's entry from every sink, stopping at the first failure.
func (s *Service) Delete(ctx context.Context, variantID int64) error {
	key := domentry.DocumentKey(domentry.IndexVariants, variantID)
	for _, sink := range s.sinks {
		if err := sink.Delete(ctx, key); err != nil {
			metrics.SinkWritesTotal.WithLabelValues(sink.Name(), opDelete, statusError).Inc()
			return fmt.Errorf("%s delete %s: %w", sink.Name(), key, err)
		}
		metrics.SinkWritesTotal.WithLabelValues(sink.Name(), opDelete, statusOK).Inc()
	}
	return nil
}

func (s *Service) upsert(ctx context.Context, entries []domentry.Entry) error {
	for _, sink := range s.sinks {
		if err := sink.Upsert(ctx, entries); err != nil {
			metrics.SinkWritesTotal.WithLabelValues(sink.Name(), opUpsert, statusError).Inc()
			s.logger.Error("Sink upsert failed",
				zap.String("sink", sink.Name()),
				zap.Int("entries", len(entries)),
				zap.Error(err),
			)
			return fmt.Errorf("%s upsert: %w", sink.Name(), err)
		}
		metrics.SinkWritesTotal.WithLabelValues(sink.Name(), opUpsert, statusOK).Inc()
	}
	return nil
}

func variantID(v *catalog.Variant) int64 {
	if v == nil {
		return 0
	}
	return v.ID
}
