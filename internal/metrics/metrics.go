// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package metrics provides Prometheus instrumentation for:
//   - Pick pipeline attempts and candidate decisions
//   - Upstream API request latency and errors
//   - Circuit breaker state and transitions
//   - API endpoint throughput
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pick Pipeline Metrics

	PickAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_pick_attempts_total",
			Help: "Total number of primary pick attempts by outcome",
		},
		[]string{"outcome"}, // "accepted", "fallback", "retry", "failed"
	)

	PickCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_pick_candidates_total",
			Help: "Total number of scanned candidates by decision",
		},
		[]string{"decision"}, // "accepted", "banned", "unusable", "enriched", "fallback"
	)

	PickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pupscout_pick_duration_seconds",
			Help:    "End-to-end duration of a pick invocation in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	PickExhaustionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pupscout_pick_exhaustions_total",
			Help: "Total number of picks that exhausted their attempt budget",
		},
	)

	// Upstream API Metrics

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pupscout_upstream_request_duration_seconds",
			Help:    "Upstream dog API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"}, // "images_search", "image_by_id"
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_upstream_requests_total",
			Help: "Total number of upstream dog API requests",
		},
		[]string{"endpoint", "status"}, // status: HTTP status code or "error"
	)

	// Circuit Breaker Metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pupscout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// API Endpoint Metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pupscout_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pupscout_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// ObserveUpstreamRequest records one upstream request with its duration
// and outcome. Pass statusCode 0 for transport-level failures.
func ObserveUpstreamRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveAPIRequest records one API request with its duration.
func ObserveAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
