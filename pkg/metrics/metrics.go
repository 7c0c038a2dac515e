// Package metrics exposes the Prometheus instrumentation for the sandbox
// backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests by method, path and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sandbox",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"})

	// HeatmapBuildsTotal counts heatmap engine invocations
	HeatmapBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sandbox",
		Name:      "heatmap_builds_total",
		Help:      "Total number of heatmap builds.",
	})

	// HeatmapBuildSeconds observes heatmap build latency
	HeatmapBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sandbox",
		Name:      "heatmap_build_seconds",
		Help:      "Heatmap build duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// SweepResultsGenerated observes sweep sizes as they are generated
	SweepResultsGenerated = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sandbox",
		Name:      "sweep_results_generated",
		Help:      "Number of results generated per sweep.",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
	})
)

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
