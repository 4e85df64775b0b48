// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

// Package main is the entry point for the Farmix server.
//
// Farmix scores how similar two Farcaster identities are by comparing the NFTs,
// token balances, followings and channel memberships of their primary
// Ethereum addresses. Scores are kept in a bounded in-memory store and served
// over HTTP.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: .env, config file and environment variables (Koanf v2)
//  2. Logging: zerolog, with a slog adapter for the supervisor
//  3. Tracing: optional OTLP/HTTP exporter (OpenTelemetry)
//  4. Upstream clients: Airstack and Covalent, each behind a circuit breaker
//  5. Scoring: identity resolver, data collector, score store and engine
//  6. HTTP Server: Chi router with legacy and /api/v1 endpoints
//  7. Supervisor tree: janitor (cache layer) and HTTP server (api layer)
//
// # Configuration
//
// Required:
//   - AIRSTACK_API_KEY: Airstack API key
//   - COVALENT_API_KEY: Covalent API key
//
// Common options:
//   - PORT: listen port (default 8081)
//   - CORS_ORIGINS: comma-separated allowed origins
//   - SIMILARITY_FAILURE_MODE: zero or exclude
//   - LOG_LEVEL, LOG_FORMAT
//   - OTEL_ENABLED, OTEL_ENDPOINT
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context; the supervisor tree then stops
// the HTTP server gracefully, draining in-flight requests.
package main
