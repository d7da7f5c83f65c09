// Package metrics defines the Prometheus collectors for the reporting server.
//
// Collectors are registered with the default registry and served by
// promhttp.Handler on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporting_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reporting_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthAttemptsTotal counts register and login outcomes.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporting_auth_attempts_total",
			Help: "Authentication attempts by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	PendingReports = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reporting_reports_pending",
			Help: "Reports still waiting for principal lecturer feedback.",
		},
	)

	RatingCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporting_rating_cache_lookups_total",
			Help: "Rating average cache lookups by result.",
		},
		[]string{"result"},
	)

	GRPCRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporting_grpc_rejections_total",
			Help: "gRPC calls refused by the caller guard, by method and reason.",
		},
		[]string{"method", "reason"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthAttemptsTotal,
		PendingReports,
		RatingCacheLookupsTotal,
		GRPCRejectionsTotal,
	)
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAuthAttempt(operation, outcome string) {
	AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

func SetPendingReports(count int64) {
	PendingReports.Set(float64(count))
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RatingCacheLookupsTotal.WithLabelValues(result).Inc()
}

func RecordGRPCRejection(method, reason string) {
	GRPCRejectionsTotal.WithLabelValues(method, reason).Inc()
}
