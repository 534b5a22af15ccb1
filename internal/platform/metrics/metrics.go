// Package metrics defines the Prometheus metrics exported by the ratings API.
// It is the single place where metric names, labels and help strings live.
//
// Build one Metrics value at startup with New and share it between the HTTP
// middleware and the services. A nil *Metrics is valid and records nothing,
// which keeps unit tests free of registry setup.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ratings"

// Rating write operations recorded by RatingWritesTotal.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// Metrics holds every collector the service records into.
type Metrics struct {
	// HTTPRequestsTotal counts finished requests.
	// Labels:
	//   - method: HTTP method
	//   - route: chi route pattern (e.g. "/api/admin/users/{id}")
	//   - status: response status code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// RatingWritesTotal counts committed rating writes.
	// Label:
	//   - operation: "create" or "update"
	RatingWritesTotal *prometheus.CounterVec

	// RatingRecomputeDuration measures how long a store aggregate recompute takes.
	RatingRecomputeDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests, by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RatingWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rating_writes_total",
				Help:      "Total number of committed rating writes, by operation.",
			},
			[]string{"operation"},
		),
		RatingRecomputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rating_recompute_duration_seconds",
				Help:      "Duration of store rating aggregate recomputes.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// ObserveHTTPRequest records one finished request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncRatingWrite counts a committed rating write.
func (m *Metrics) IncRatingWrite(operation string) {
	if m == nil {
		return
	}
	m.RatingWritesTotal.WithLabelValues(operation).Inc()
}

// ObserveRecompute records the duration of one aggregate recompute.
func (m *Metrics) ObserveRecompute(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RatingRecomputeDuration.Observe(elapsed.Seconds())
}
