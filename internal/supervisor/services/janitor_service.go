// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package services

import (
	"context"
	"time"

	"github.com/tomtom215/farmix/internal/logging"
)

// Sweeper removes expired entries and reports how many were removed.
// *scoring.ScoreStore satisfies it.
type Sweeper interface {
	CleanupExpired() int
}

// JanitorService runs a Sweeper on a fixed interval.
type JanitorService struct {
	sweeper  Sweeper
	interval time.Duration
	name     string
}

// NewJanitorService creates a janitor. Non-positive intervals mean one minute.
func NewJanitorService(name string, sweeper Sweeper, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorService{
		sweeper:  sweeper,
		interval: interval,
		name:     name,
	}
}

// Serve implements suture.Service. It sweeps on every tick until ctx is
// canceled. A panicking sweep is recovered and restarted by the supervisor.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := j.sweeper.CleanupExpired(); removed > 0 {
				logging.Debug().
					Str("service", j.name).
					Int("removed", removed).
					Msg("Expired entries swept")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *JanitorService) String() string {
	return j.name
}
