// Package metrics exposes Prometheus collectors for the generation
// pipeline. Labels stay low-cardinality: feature and outcome only,
// never user IDs.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes used as the status label.
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

var (
	// GenerationsTotal counts generation attempts by feature and outcome.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elevateed",
		Name:      "generations_total",
		Help:      "Generation attempts by feature and outcome.",
	}, []string{"feature", "status"})

	// QuotaRejectionsTotal counts requests refused by the daily budget.
	QuotaRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elevateed",
		Name:      "quota_rejections_total",
		Help:      "Requests refused because the daily generation budget was spent.",
	}, []string{"feature"})

	// UpstreamDuration observes generation backend round-trip latency.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "elevateed",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of calls to the generation backend.",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"endpoint"})

	// ExportsTotal counts artifact exports by feature and format.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "elevateed",
		Name:      "exports_total",
		Help:      "Artifact exports by feature and format.",
	}, []string{"feature", "format"})
)

// Handler adapts the Prometheus scrape handler to gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
