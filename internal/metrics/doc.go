// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package metrics provides Prometheus metrics for Farmix.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:8081/metrics

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Upstream providers:
  - upstream_request_duration_seconds{provider,operation}
  - upstream_request_errors_total{provider,operation}
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Similarity:
  - similarity_comparisons_total{outcome} (scored, unresolved, failed, busy)
  - similarity_comparison_duration_seconds
  - similarity_comparisons_in_flight
  - similarity_dimension_ratio{dimension}
  - similarity_dimension_fetch_failures_total{dimension}
  - similarity_identity_resolutions_total{kind,result}

Score store:
  - score_store_hits_total, score_store_misses_total
  - score_store_evictions_total{reason} (capacity, expired)
  - score_store_entries
*/
package metrics
