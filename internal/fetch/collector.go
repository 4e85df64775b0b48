// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package fetch

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/farmix/internal/models"
	"github.com/tomtom215/farmix/internal/sources"
)

// Collection holds the four tagged fetch results for one address.
type Collection struct {
	Address    models.Address
	NFTs       fn.Result[[]models.NFTAsset]
	Tokens     fn.Result[[]models.TokenBalance]
	Followings fn.Result[[]models.Following]
	Channels   fn.Result[[]models.ChannelParticipant]
}

// Failed reports whether the fetch for dim returned an error.
func (c Collection) Failed(dim models.Dimension) bool {
	switch dim {
	case models.DimensionNFT:
		return c.NFTs.IsErr()
	case models.DimensionToken:
		return c.Tokens.IsErr()
	case models.DimensionFollowing:
		return c.Followings.IsErr()
	case models.DimensionChannel:
		return c.Channels.IsErr()
	default:
		return true
	}
}

// Collector runs the four dimension fetchers for an address.
type Collector struct {
	nfts       *Fetcher[models.NFTAsset]
	tokens     *Fetcher[models.TokenBalance]
	followings *Fetcher[models.Following]
	channels   *Fetcher[models.ChannelParticipant]
}

// NewCollector wires the four fetchers to the provider clients.
func NewCollector(graph sources.SocialGraph, chain sources.ChainData, fetchTimeout time.Duration) *Collector {
	return &Collector{
		nfts:       NewNFTFetcher(chain, fetchTimeout),
		tokens:     NewTokenFetcher(chain, fetchTimeout),
		followings: NewFollowingFetcher(graph, fetchTimeout),
		channels:   NewChannelFetcher(graph, fetchTimeout),
	}
}

// Collect runs all four fetches for addr concurrently. Individual failures
// are carried in the returned Collection, never as an error.
func (c *Collector) Collect(ctx context.Context, addr models.Address) Collection {
	out := Collection{Address: addr}

	var g errgroup.Group
	g.Go(func() error {
		out.NFTs = c.nfts.Fetch(ctx, addr)
		return nil
	})
	g.Go(func() error {
		out.Tokens = c.tokens.Fetch(ctx, addr)
		return nil
	})
	g.Go(func() error {
		out.Followings = c.followings.Fetch(ctx, addr)
		return nil
	})
	g.Go(func() error {
		out.Channels = c.channels.Fetch(ctx, addr)
		return nil
	})
	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	return out
}
