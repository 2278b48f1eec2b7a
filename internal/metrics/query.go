package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docql",
			Name:      "queries_total",
			Help:      "Total number of executed queries",
		},
		[]string{"collection", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docql",
			Name:      "query_duration_seconds",
			Help:      "Query execution duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"collection"},
	)

	QueryDocsScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docql",
			Name:      "query_docs_scanned_total",
			Help:      "Total documents scanned by queries",
		},
		[]string{"collection"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryDocsScanned)
	queryMetricsRegistered = true
}
