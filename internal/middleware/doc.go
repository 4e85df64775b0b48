// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package middleware provides HTTP middleware shared by the Farmix router.

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route

Both are plain func(http.Handler) http.Handler and are mounted with chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the matched chi route pattern
(for example /api/v1/similarity/{fid}) rather than the raw path, which keeps
label cardinality bounded.
*/
package middleware
