// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/metrics"
	"github.com/tomtom215/farmix/internal/models"
	"github.com/tomtom215/farmix/internal/sources"
)

// Resolver maps identities to their first connected wallet address.
type Resolver struct {
	graph   sources.SocialGraph
	timeout time.Duration
}

// NewResolver creates a resolver bounded by timeout per lookup.
// A non-positive timeout leaves the caller's context deadline in charge.
func NewResolver(graph sources.SocialGraph, timeout time.Duration) *Resolver {
	return &Resolver{graph: graph, timeout: timeout}
}

// ResolveByFID resolves a numeric Farcaster ID.
func (r *Resolver) ResolveByFID(ctx context.Context, fid string) fn.Option[models.Address] {
	return r.Resolve(ctx, models.FIDIdentity(fid))
}

// ResolveByUsername resolves a Farcaster username.
func (r *Resolver) ResolveByUsername(ctx context.Context, username string) fn.Option[models.Address] {
	return r.Resolve(ctx, models.UsernameIdentity(username))
}

// Resolve issues exactly one provider query for id and returns the first
// connected address of the first matching profile.
func (r *Resolver) Resolve(ctx context.Context, id models.Identity) fn.Option[models.Address] {
	field, err := filterField(id.Kind)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("identity", id.RawID).Msg("Cannot resolve identity")
		metrics.RecordIdentityResolution(id.Kind.String(), false)
		return fn.None[models.Address]()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	profiles, err := r.graph.GetSocialAddresses(ctx, field, strings.TrimSpace(id.RawID))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", id.Kind.String()).
			Str("identity", id.RawID).
			Msg("Identity resolution failed")
		metrics.RecordIdentityResolution(id.Kind.String(), false)
		return fn.None[models.Address]()
	}

	addr := firstAddress(profiles)
	metrics.RecordIdentityResolution(id.Kind.String(), addr.IsSome())

	if addr.IsNone() {
		logging.Ctx(ctx).Debug().
			Str("kind", id.Kind.String()).
			Str("identity", id.RawID).
			Msg("Identity has no connected address")
	}
	return addr
}

// filterField maps an identity kind to the provider filter field.
func filterField(kind models.IdentityKind) (string, error) {
	switch kind {
	case models.KindFID:
		return sources.SocialFieldUserID, nil
	case models.KindUsername:
		return sources.SocialFieldProfileName, nil
	default:
		return "", fmt.Errorf("unknown identity kind %d", kind)
	}
}

// firstAddress returns the first connected address of the first profile.
// Later profiles and addresses are ignored.
func firstAddress(profiles []sources.SocialProfile) fn.Option[models.Address] {
	if len(profiles) == 0 {
		return fn.None[models.Address]()
	}
	connected := profiles[0].ConnectedAddresses
	if len(connected) == 0 || connected[0].Address == nil {
		return fn.None[models.Address]()
	}
	addr := models.NewAddress(*connected[0].Address)
	if addr == "" {
		return fn.None[models.Address]()
	}
	return fn.Some(addr)
}
