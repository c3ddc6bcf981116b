// Package metrics provides Prometheus instrumentation for the pricing API.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BreakdownsTotal counts computed breakdowns by line, plan and period.
	BreakdownsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "breakdowns_total",
			Help:      "Total cost breakdowns computed by product line, plan and billing period.",
		},
		[]string{"line", "plan", "period"},
	)

	// InputRejectionsTotal counts rejected user input by reason.
	InputRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "input_rejections_total",
			Help:      "Total rejected inputs by reason.",
		},
		[]string{"reason"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// TableInfo is 1 for the pricing table being served.
	TableInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pricing",
			Name:      "table_info",
			Help:      "Pricing table in use, labelled by version and fingerprint.",
		},
		[]string{"version", "fingerprint"},
	)
)

func init() {
	prometheus.MustRegister(
		BreakdownsTotal,
		InputRejectionsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TableInfo,
	)
}

// SetTable records the served pricing table
func SetTable(version, fingerprint string) {
	TableInfo.Reset()
	TableInfo.WithLabelValues(version, fingerprint).Set(1)
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern, not the raw path
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
