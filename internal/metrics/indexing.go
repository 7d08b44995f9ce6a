package metrics

import "github.com/prometheus/client_golang/prometheus"

// Category resolution outcomes.
const (
	ResolveFound    = "found"
	ResolveNotFound = "not_found"
	ResolveError    = "error"
)

// Indexing Prometheus metrics.
var (
	EntryBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mallindex",
			Name:      "entry_builds_total",
			Help:      "Total number of index entry builds",
		},
		[]string{"index", "status"},
	)

	EntryBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mallindex",
			Name:      "entry_build_duration_seconds",
			Help:      "Index entry build duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"index"},
	)

	SinkWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mallindex",
			Name:      "sink_writes_total",
			Help:      "Total entry writes per ingestion sink",
		},
		[]string{"sink", "op", "status"},
	)

	CategoryResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mallindex",
			Name:      "category_resolve_total",
			Help:      "Nested category path resolutions by outcome",
		},
		[]string{"result"},
	)
)

var indexingMetricsRegistered bool

// RegisterIndexingMetrics registers the indexing metrics. Must be called once from main.
func RegisterIndexingMetrics() {
	if indexingMetricsRegistered {
		return
	}
	prometheus.MustRegister(EntryBuildsTotal)
	prometheus.MustRegister(EntryBuildDuration)
	prometheus.MustRegister(SinkWritesTotal)
	prometheus.MustRegister(CategoryResolveTotal)
	indexingMetricsRegistered = true
}
