// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package cache provides bounded, thread-safe in-memory caches.

# Overview

  - LRU[V]: a least-recently-used cache with optional TTL, O(1) Get/Add/Remove
    using a hashmap plus a doubly-linked list with sentinel nodes
  - ShardedLRU[V]: N independent LRU shards, each with its own mutex; the
    shard for a key is chosen by xxhash, so operations on different keys
    rarely contend and no lock ever spans the whole keyspace

Expired entries are dropped lazily on read and eagerly by CleanupExpired,
which a supervised janitor calls periodically.

# Usage Example

	store := cache.NewShardedLRU[float64](cache.ShardedConfig{
	    Capacity: 100000,
	    Shards:   16,
	    TTL:      24 * time.Hour,
	})
	store.Add("3", 42.5)
	if score, ok := store.Get("3"); ok {
	    // use score
	}

# Eviction Hooks

OnEvict is called with the shard lock held whenever an entry leaves the
cache because of capacity or expiry (not on Remove or overwrite). It must
not call back into the cache.
*/
package cache
