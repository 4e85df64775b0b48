// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/models"
	"github.com/tomtom215/farmix/internal/sources"
)

var tracer = otel.Tracer("github.com/tomtom215/farmix/internal/fetch")

// Fetcher retrieves one dimension's raw records for an address.
type Fetcher[T any] struct {
	dimension models.Dimension
	timeout   time.Duration
	call      func(ctx context.Context, addr models.Address) ([]T, error)
}

// Dimension returns the dimension this fetcher serves.
func (f *Fetcher[T]) Dimension() models.Dimension {
	return f.dimension
}

// Fetch retrieves the records for addr under the fetcher's timeout.
func (f *Fetcher[T]) Fetch(ctx context.Context, addr models.Address) (res fn.Result[[]T]) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "fetch."+string(f.dimension), trace.WithAttributes(
		attribute.String("farmix.address", addr.String()),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			res = fn.Err[[]T](fmt.Errorf("%s fetch panicked: %v", f.dimension, r))
		}
		res.WhenErr(func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		})
	}()

	records, err := f.call(ctx, addr)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("dimension", string(f.dimension)).
			Str("address", addr.String()).
			Msg("Dimension fetch failed")
		return fn.Err[[]T](fmt.Errorf("fetch %s for %s: %w", f.dimension, addr, err))
	}
	if records == nil {
		records = []T{}
	}
	return fn.Ok(records)
}

// NewNFTFetcher creates the nft dimension fetcher.
func NewNFTFetcher(chain sources.ChainData, timeout time.Duration) *Fetcher[models.NFTAsset] {
	return &Fetcher[models.NFTAsset]{dimension: models.DimensionNFT, timeout: timeout, call: chain.GetNFTs}
}

// NewTokenFetcher creates the token dimension fetcher.
func NewTokenFetcher(chain sources.ChainData, timeout time.Duration) *Fetcher[models.TokenBalance] {
	return &Fetcher[models.TokenBalance]{dimension: models.DimensionToken, timeout: timeout, call: chain.GetTokenBalances}
}

// NewFollowingFetcher creates the following dimension fetcher.
func NewFollowingFetcher(graph sources.SocialGraph, timeout time.Duration) *Fetcher[models.Following] {
	return &Fetcher[models.Following]{dimension: models.DimensionFollowing, timeout: timeout, call: graph.GetFollowings}
}

// NewChannelFetcher creates the channel dimension fetcher.
func NewChannelFetcher(graph sources.SocialGraph, timeout time.Duration) *Fetcher[models.ChannelParticipant] {
	return &Fetcher[models.ChannelParticipant]{dimension: models.DimensionChannel, timeout: timeout, call: graph.GetChannelMemberships}
}
