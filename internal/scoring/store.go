// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package scoring

import (
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tomtom215/farmix/internal/cache"
	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/metrics"
)

type entryState uint8

const (
	stateInProgress entryState = iota
	stateReady
	stateFailed
)

func (s entryState) String() string {
	switch s {
	case stateInProgress:
		return "in_progress"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type scoreEntry struct {
	state      entryState
	score      float64
	generation uint64
}

// ScoreStore maps FIDs to their last computed aggregate score.
type ScoreStore struct {
	entries    *cache.ShardedLRU[scoreEntry]
	generation atomic.Uint64
}

// NewScoreStore creates a bounded store from the store config section.
func NewScoreStore(cfg *config.StoreConfig) *ScoreStore {
	return &ScoreStore{
		entries: cache.NewShardedLRU[scoreEntry](cache.ShardedConfig{
			Capacity: cfg.Capacity,
			Shards:   cfg.Shards,
			TTL:      cfg.TTL,
			OnEvict: func(_ string, reason cache.EvictReason) {
				metrics.ScoreStoreEvictions.WithLabelValues(string(reason)).Inc()
			},
		}),
	}
}

// MarkInProgress replaces any entry for fid with the in-progress sentinel and
// returns the generation that must be passed to Set or MarkFailed.
func (s *ScoreStore) MarkInProgress(fid string) uint64 {
	gen := s.generation.Add(1)
	s.entries.Add(fid, scoreEntry{state: stateInProgress, generation: gen})
	metrics.ScoreStoreSize.Set(float64(s.entries.Len()))
	return gen
}

// Set stores the final score for fid. It is a no-op if a newer comparison
// has marked fid since generation gen was issued.
func (s *ScoreStore) Set(fid string, gen uint64, score float64) bool {
	return s.finish(fid, gen, scoreEntry{state: stateReady, score: score, generation: gen})
}

// MarkFailed records that the comparison for generation gen failed.
func (s *ScoreStore) MarkFailed(fid string, gen uint64) bool {
	return s.finish(fid, gen, scoreEntry{state: stateFailed, generation: gen})
}

func (s *ScoreStore) finish(fid string, gen uint64, entry scoreEntry) bool {
	return s.entries.Update(fid, func(old scoreEntry, found bool) (scoreEntry, bool) {
		if found && old.generation != gen {
			return old, false
		}
		return entry, true
	})
}

// Get returns the stored score for fid. It is None when fid was never
// computed, is being recomputed, failed, or has expired.
func (s *ScoreStore) Get(fid string) fn.Option[float64] {
	entry, ok := s.entries.Get(fid)
	if !ok || entry.state != stateReady {
		metrics.RecordScoreLookup(false)
		return fn.None[float64]()
	}
	metrics.RecordScoreLookup(true)
	return fn.Some(entry.score)
}

// Len returns the number of stored entries.
func (s *ScoreStore) Len() int {
	return s.entries.Len()
}

// CleanupExpired drops expired entries and refreshes the size gauge.
func (s *ScoreStore) CleanupExpired() int {
	removed := s.entries.CleanupExpired()
	metrics.ScoreStoreSize.Set(float64(s.entries.Len()))
	return removed
}
