// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package api provides the HTTP interface of Farmix using the Chi router.

# Endpoints

Legacy endpoints answer with bare JSON values:

  - POST /calculateSimilarity {fid, secondaryUsername} -> 200 <number>
  - POST /getSimilarityScore  {fid}                    -> 200 <number|null>

Versioned endpoints use the standard envelope (models.APIResponse):

  - POST /api/v1/similarity        full comparison breakdown
  - GET  /api/v1/similarity/{fid}  {fid, score|null}
  - GET  /api/v1/health/live       liveness probe
  - GET  /api/v1/health/ready      readiness probe with circuit breaker states

GET /metrics serves Prometheus metrics.

The fid field may be sent as a JSON number or a numeric string.

# Errors

All failures use the envelope, including on legacy endpoints:

  - 400 VALIDATION_ERROR for malformed or invalid bodies
  - 503 SERVICE_BUSY when the comparison limit is reached
  - 500 COMPUTE_FAILED for any other comparison failure

# Middleware

Global: request ID with logging context, real IP, panic recovery, CORS
(configured origins, credentials allowed). Similarity routes add per-IP rate
limiting (go-chi/httprate) and Prometheus request metrics.
*/
package api
