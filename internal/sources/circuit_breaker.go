// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/metrics"
	"github.com/tomtom215/farmix/internal/models"
)

// Circuit breaker names, also used as metric labels.
const (
	AirstackBreakerName = "airstack-api"
	CovalentBreakerName = "covalent-api"
)

// breaker is the shared gobreaker wrapper used by both provider clients.
//
// The breaker uses real time for its interval and timeout. Tests drive the
// state machine through execute rather than waiting on the clock.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// newBreaker creates a circuit breaker with the standard settings:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func newBreaker(name string) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &breaker{cb: cb, name: name}
}

// execute runs fn under circuit breaker protection and records the outcome.
func (b *breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	return result, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *breaker) State() string {
	return stateToString(b.cb.State())
}

// Name returns the breaker name.
func (b *breaker) Name() string {
	return b.name
}

// castResult safely type-casts the circuit breaker result with error checking.
// A nil result (empty upstream payload) yields a nil slice.
func castResult[T any](result interface{}, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// AirstackCircuitBreakerClient wraps a SocialGraph with circuit breaker protection.
type AirstackCircuitBreakerClient struct {
	*breaker
	client SocialGraph
}

// NewAirstackCircuitBreakerClient creates an Airstack client with circuit breaker.
func NewAirstackCircuitBreakerClient(cfg *config.AirstackConfig) *AirstackCircuitBreakerClient {
	return WrapSocialGraph(NewAirstackClient(cfg))
}

// WrapSocialGraph wraps any SocialGraph implementation with the airstack breaker.
func WrapSocialGraph(client SocialGraph) *AirstackCircuitBreakerClient {
	return &AirstackCircuitBreakerClient{
		breaker: newBreaker(AirstackBreakerName),
		client:  client,
	}
}

// Ping verifies connectivity with circuit breaker protection.
func (c *AirstackCircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := c.execute(func() (interface{}, error) {
		return nil, c.client.Ping(ctx)
	})
	return err
}

// GetSocialAddresses resolves social profiles with circuit breaker protection.
func (c *AirstackCircuitBreakerClient) GetSocialAddresses(ctx context.Context, field, value string) ([]SocialProfile, error) {
	return castResult[SocialProfile](c.execute(func() (interface{}, error) {
		return c.client.GetSocialAddresses(ctx, field, value)
	}))
}

// GetFollowings lists followings with circuit breaker protection.
func (c *AirstackCircuitBreakerClient) GetFollowings(ctx context.Context, addr models.Address) ([]models.Following, error) {
	return castResult[models.Following](c.execute(func() (interface{}, error) {
		return c.client.GetFollowings(ctx, addr)
	}))
}

// GetChannelMemberships lists channel memberships with circuit breaker protection.
func (c *AirstackCircuitBreakerClient) GetChannelMemberships(ctx context.Context, addr models.Address) ([]models.ChannelParticipant, error) {
	return castResult[models.ChannelParticipant](c.execute(func() (interface{}, error) {
		return c.client.GetChannelMemberships(ctx, addr)
	}))
}

// CovalentCircuitBreakerClient wraps a ChainData with circuit breaker protection.
type CovalentCircuitBreakerClient struct {
	*breaker
	client ChainData
}

// NewCovalentCircuitBreakerClient creates a Covalent client with circuit breaker.
func NewCovalentCircuitBreakerClient(cfg *config.CovalentConfig) *CovalentCircuitBreakerClient {
	return WrapChainData(NewCovalentClient(cfg))
}

// WrapChainData wraps any ChainData implementation with the covalent breaker.
func WrapChainData(client ChainData) *CovalentCircuitBreakerClient {
	return &CovalentCircuitBreakerClient{
		breaker: newBreaker(CovalentBreakerName),
		client:  client,
	}
}

// GetNFTs lists NFT holdings with circuit breaker protection.
func (c *CovalentCircuitBreakerClient) GetNFTs(ctx context.Context, addr models.Address) ([]models.NFTAsset, error) {
	return castResult[models.NFTAsset](c.execute(func() (interface{}, error) {
		return c.client.GetNFTs(ctx, addr)
	}))
}

// GetTokenBalances lists token balances with circuit breaker protection.
func (c *CovalentCircuitBreakerClient) GetTokenBalances(ctx context.Context, addr models.Address) ([]models.TokenBalance, error) {
	return castResult[models.TokenBalance](c.execute(func() (interface{}, error) {
		return c.client.GetTokenBalances(ctx, addr)
	}))
}

var (
	_ SocialGraph = (*AirstackClient)(nil)
	_ SocialGraph = (*AirstackCircuitBreakerClient)(nil)
	_ ChainData   = (*CovalentClient)(nil)
	_ ChainData   = (*CovalentCircuitBreakerClient)(nil)
)
