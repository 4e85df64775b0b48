// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Provider Metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream providers in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "operation"},
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_errors_total",
			Help: "Total number of failed requests to upstream providers",
		},
		[]string{"provider", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Similarity Metrics
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_comparisons_total",
			Help: "Total number of similarity comparisons by outcome",
		},
		[]string{"outcome"}, // scored, unresolved, failed, busy
	)

	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_comparison_duration_seconds",
			Help:    "End-to-end duration of a similarity comparison in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	ComparisonsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_comparisons_in_flight",
			Help: "Current number of comparisons holding a concurrency slot",
		},
	)

	DimensionRatio = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similarity_dimension_ratio",
			Help:    "Overlap ratio per dimension (0-100)",
			Buckets: []float64{0, 5, 10, 25, 50, 75, 90, 100},
		},
		[]string{"dimension"},
	)

	DimensionFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_dimension_fetch_failures_total",
			Help: "Total number of failed dimension fetches",
		},
		[]string{"dimension"},
	)

	IdentityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_identity_resolutions_total",
			Help: "Total number of identity resolutions by kind and result",
		},
		[]string{"kind", "result"}, // result: resolved, unresolved
	)

	// Score Store Metrics
	ScoreStoreHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_store_hits_total",
			Help: "Total number of score lookups that returned a score",
		},
	)

	ScoreStoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_store_misses_total",
			Help: "Total number of score lookups that returned null",
		},
	)

	ScoreStoreEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_store_evictions_total",
			Help: "Total number of score store evictions",
		},
		[]string{"reason"}, // capacity, expired
	)

	ScoreStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "score_store_entries",
			Help: "Current number of entries in the score store",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records the latency of one upstream call and counts it as an error when err is non-nil.
func RecordUpstreamRequest(provider, operation string, duration time.Duration, err error) {
	UpstreamRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if err != nil {
		UpstreamRequestErrors.WithLabelValues(provider, operation).Inc()
	}
}

// RecordComparison records the outcome and duration of one comparison.
func RecordComparison(outcome string, duration time.Duration) {
	ComparisonsTotal.WithLabelValues(outcome).Inc()
	ComparisonDuration.Observe(duration.Seconds())
}

// RecordDimension records one dimension's ratio, or a fetch failure.
func RecordDimension(dimension string, ratio float64, failed bool) {
	if failed {
		DimensionFetchFailures.WithLabelValues(dimension).Inc()
		return
	}
	DimensionRatio.WithLabelValues(dimension).Observe(ratio)
}

// RecordIdentityResolution records whether an identity resolved to an address.
func RecordIdentityResolution(kind string, resolved bool) {
	result := "unresolved"
	if resolved {
		result = "resolved"
	}
	IdentityResolutions.WithLabelValues(kind, result).Inc()
}

// RecordScoreLookup counts a score store hit or miss.
func RecordScoreLookup(hit bool) {
	if hit {
		ScoreStoreHits.Inc()
	} else {
		ScoreStoreMisses.Inc()
	}
}
