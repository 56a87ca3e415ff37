package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests handled by the service.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sillyboy",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets: []float64{
				.001, .005, .01, .025, .05,
				.1, .25, .5, 1, 2.5, 5, 10, 30, 60,
			},
		},
		[]string{"method", "route", "status"},
	)

	// UpstreamRequestsTotal counts calls made to upstream services
	// (inference server, swap relayer).
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream API calls",
		},
		[]string{"upstream", "operation", "status"},
	)

	// UpstreamRequestDuration measures upstream call latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sillyboy",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream", "operation"},
	)
)

// RecordRequest records a completed HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	RequestsTotal.WithLabelValues(method, route, code).Inc()
	RequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// RecordUpstreamRequest records a completed upstream call.
func RecordUpstreamRequest(upstream, operation string, status int, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(upstream, operation, strconv.Itoa(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream, operation).Observe(duration.Seconds())
}

// MetricsHandler returns an HTTP handler exposing the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
