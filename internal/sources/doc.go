// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package sources implements the upstream API clients used by Farmix.

# Providers

  - AirstackClient: the Airstack GraphQL API (social graph). Resolves Farcaster
    identities to connected wallet addresses and lists a wallet's Farcaster
    followings and channel memberships.
  - CovalentClient: the Covalent REST API (chain data). Lists a wallet's NFT
    holdings and token balances on one chain. Only the first page is read.

Both clients accept context.Context on every call, wait on a client-side
token bucket (golang.org/x/time/rate) before each request, retry HTTP 429
with exponential backoff honoring Retry-After, and read at most 64KB of an
error body.

# Circuit Breakers

AirstackCircuitBreakerClient and CovalentCircuitBreakerClient wrap the plain
clients with sony/gobreaker and implement the same interfaces (SocialGraph,
ChainData):

  - Max 3 requests in half-open state
  - 1 minute measurement window
  - 2 minute open timeout
  - Opens at >= 60% failures with at least 10 requests

State changes are exported as circuit_breaker_* Prometheus metrics.

# Response Schemas

Every query shape decodes into an explicit schema of pointers and nil-able
slices. A null data envelope or a missing nested field decodes to nil and is
returned as an empty result, never a panic. GraphQL errors arrays, non-200
statuses and Covalent error envelopes are returned as errors.
*/
package sources
