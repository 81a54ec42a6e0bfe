package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chartref",
			Name:      "resolutions_total",
			Help:      "Total number of query resolutions",
		},
		[]string{"kind", "outcome"}, // kind: chart / procedure / connection
	)

	PagesRotatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chartref",
			Name:      "pages_rotated_total",
			Help:      "Total number of assembled pages by applied rotation",
		},
		[]string{"degrees"},
	)

	SectionLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chartref",
			Name:      "section_lookups_total",
			Help:      "Section and search-term lookups by result",
		},
		[]string{"result"}, // "found" / "not_found"
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chartref",
			Name:      "catalog_cache_total",
			Help:      "Catalog cache hits, misses and bypasses",
		},
		[]string{"result"}, // "hit" / "miss" / "bypass" / "error"
	)

	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chartref",
			Name:      "source_requests_total",
			Help:      "Total number of upstream catalog and document requests",
		},
		[]string{"source", "status"},
	)

	SourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chartref",
			Name:      "source_request_duration_seconds",
			Help:      "Upstream catalog and document request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(PagesRotatedTotal)
	prometheus.MustRegister(SectionLookupsTotal)
	prometheus.MustRegister(CatalogCacheTotal)
	prometheus.MustRegister(SourceRequestsTotal)
	prometheus.MustRegister(SourceRequestDuration)
	engineMetricsRegistered = true
}
