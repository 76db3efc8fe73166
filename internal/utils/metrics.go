package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voyage_analytics",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voyage_analytics",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of served HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voyage_analytics",
		Name:      "upstream_requests_total",
		Help:      "Calls to the travel backend, by resource and outcome.",
	}, []string{"resource", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voyage_analytics",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to the travel backend, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource"})

	degraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voyage_analytics",
		Name:      "degraded_results_total",
		Help:      "Analytics results replaced by zero values after an upstream failure.",
	}, []string{"operation"})
)

func ObserveHTTP(method, route, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveUpstream(resource string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamCalls.WithLabelValues(resource, outcome).Inc()
	upstreamLatency.WithLabelValues(resource).Observe(d.Seconds())
}

func MarkDegraded(operation string) { degraded.WithLabelValues(operation).Inc() }
