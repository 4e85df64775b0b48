// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package cache

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// ShardedConfig sizes a ShardedLRU.
type ShardedConfig struct {
	// Capacity is the total entry budget, split evenly across shards.
	Capacity int
	// Shards is the number of independently locked partitions.
	Shards int
	// TTL is the per-entry time-to-live; <= 0 disables expiry.
	TTL time.Duration
	// OnEvict observes capacity and expiry evictions.
	OnEvict EvictFunc
}

// ShardedLRU partitions keys across independent LRU shards by xxhash.
type ShardedLRU[V any] struct {
	shards []*LRU[V]
}

// NewShardedLRU creates a sharded cache. Each shard holds ceil(Capacity/Shards) entries.
func NewShardedLRU[V any](cfg ShardedConfig) *ShardedLRU[V] {
	if cfg.Shards <= 0 {
		cfg.Shards = 16
	}
	if cfg.Capacity < cfg.Shards {
		cfg.Capacity = cfg.Shards
	}
	perShard := (cfg.Capacity + cfg.Shards - 1) / cfg.Shards

	s := &ShardedLRU[V]{shards: make([]*LRU[V], cfg.Shards)}
	for i := range s.shards {
		s.shards[i] = NewLRU[V](perShard, cfg.TTL, cfg.OnEvict)
	}
	return s
}

// shard returns the shard owning key.
func (s *ShardedLRU[V]) shard(key string) *LRU[V] {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// Get retrieves a live entry.
func (s *ShardedLRU[V]) Get(key string) (V, bool) {
	return s.shard(key).Get(key)
}

// Contains reports whether key holds a live entry.
func (s *ShardedLRU[V]) Contains(key string) bool {
	return s.shard(key).Contains(key)
}

// Add inserts or replaces the entry for key.
func (s *ShardedLRU[V]) Add(key string, value V) {
	s.shard(key).Add(key, value)
}

// Update atomically replaces the entry for key under its shard lock.
func (s *ShardedLRU[V]) Update(key string, update func(old V, found bool) (V, bool)) bool {
	return s.shard(key).Update(key, update)
}

// Remove deletes key. Returns true if it was present.
func (s *ShardedLRU[V]) Remove(key string) bool {
	return s.shard(key).Remove(key)
}

// Len returns the total number of entries across shards.
func (s *ShardedLRU[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// CleanupExpired sweeps every shard and returns the number of entries removed.
// Shards are locked one at a time.
func (s *ShardedLRU[V]) CleanupExpired() int {
	removed := 0
	for _, sh := range s.shards {
		removed += sh.CleanupExpired()
	}
	return removed
}

// Clear empties every shard.
func (s *ShardedLRU[V]) Clear() {
	for _, sh := range s.shards {
		sh.Clear()
	}
}

// Stats sums hit/miss statistics across shards.
func (s *ShardedLRU[V]) Stats() (hits, misses int64, size int) {
	for _, sh := range s.shards {
		h, m, n := sh.Stats()
		hits += h
		misses += m
		size += n
	}
	return hits, misses, size
}

// ShardCount returns the number of shards.
func (s *ShardedLRU[V]) ShardCount() int {
	return len(s.shards)
}
