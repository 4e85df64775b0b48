// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package config provides layered configuration loading for Farmix.

Configuration is assembled from three layers, later layers overriding earlier
ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/farmix/config.yaml)
 3. Environment variables, mapped explicitly to config paths

A .env file in the working directory is loaded into the process environment
before the environment layer is read, so local development can keep API keys
out of the shell:

	AIRSTACK_API_KEY=...
	COVALENT_API_KEY=...
	PORT=8081

Only the variables listed in envTransformFunc are honored; any other
environment variable is ignored.

# Sections

  - server: listen address, HTTP timeouts, environment name
  - airstack: social-graph GraphQL endpoint, key, dapp, blockchain, client rate limit
  - covalent: chain-data REST endpoint, key, chain name, client rate limit
  - similarity: failure mode, per-fetch and resolve timeouts, concurrency cap
  - store: score store capacity, shard count, TTL, janitor interval
  - security: CORS origins and inbound rate limiting
  - logging: level, format, caller
  - tracing: OpenTelemetry OTLP export

Validate is called by Load; an invalid configuration never reaches the server.
*/
package config
