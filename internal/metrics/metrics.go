// Package metrics provides Prometheus instrumentation for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts chat requests by outcome: "ok", "bad_request",
	// "backend_error", "unreachable", "timeout", "internal_error".
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by outcome.",
		},
		[]string{"outcome"},
	)

	// RequestLatency tracks end-to-end chat request latency in seconds.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_request_latency_seconds",
			Help:    "End-to-end chat request latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"}, // "stream" or "sync"
	)

	// ActiveRequests tracks the number of currently in-flight requests.
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_requests",
			Help: "Number of currently in-flight chat requests.",
		},
	)
)
