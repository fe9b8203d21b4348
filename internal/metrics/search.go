package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and index Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchapi",
			Name:      "search_duration_seconds",
			Help:      "Full-text search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"}, // "ranked" / "fuzzy"
	)

	SearchResultCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchapi",
			Name:      "search_result_count",
			Help:      "Number of services returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"mode"},
	)

	ReindexTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchapi",
			Name:      "reindex_total",
			Help:      "Total number of service reindex operations",
		},
		[]string{"status"}, // "ok" / "error"
	)

	ReindexDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchapi",
			Name:      "reindex_duration_seconds",
			Help:      "Service reindex duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultCount)
	prometheus.MustRegister(ReindexTotal)
	prometheus.MustRegister(ReindexDuration)
	searchMetricsRegistered = true
}
