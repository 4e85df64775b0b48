// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/fetch"
	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/metrics"
	"github.com/tomtom215/farmix/internal/models"
	"github.com/tomtom215/farmix/internal/similarity"
)

// ErrBusy is returned when no comparison slot frees up in time.
var ErrBusy = errors.New("too many similarity comparisons in progress")

// Comparison outcomes used as metric labels.
const (
	outcomeScored     = "scored"
	outcomeUnresolved = "unresolved"
	outcomeFailed     = "failed"
	outcomeBusy       = "busy"
)

const tracerName = "github.com/tomtom215/farmix/internal/scoring"

// Resolver resolves identities to addresses.
type Resolver interface {
	ResolveByFID(ctx context.Context, fid string) fn.Option[models.Address]
	ResolveByUsername(ctx context.Context, username string) fn.Option[models.Address]
}

// Collector fetches the four dimension collections for an address.
type Collector interface {
	Collect(ctx context.Context, addr models.Address) fetch.Collection
}

// Engine runs similarity comparisons and records their scores.
type Engine struct {
	resolver       Resolver
	collector      Collector
	store          *ScoreStore
	failureMode    string
	slots          *semaphore.Weighted
	acquireTimeout time.Duration
	inflight       singleflight.Group
	tracer         trace.Tracer
}

// NewEngine creates an engine from the similarity config section.
func NewEngine(resolver Resolver, collector Collector, store *ScoreStore, cfg *config.SimilarityConfig) *Engine {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	mode := cfg.FailureMode
	if mode == "" {
		mode = config.FailureModeZero
	}
	return &Engine{
		resolver:       resolver,
		collector:      collector,
		store:          store,
		failureMode:    mode,
		slots:          semaphore.NewWeighted(maxConcurrent),
		acquireTimeout: cfg.AcquireTimeout,
		tracer:         otel.Tracer(tracerName),
	}
}

// Score returns the stored score for fid without computing anything.
func (e *Engine) Score(fid string) fn.Option[float64] {
	return e.store.Get(fid)
}

// Compute compares the identity behind fid with the one behind username and
// stores the aggregate score under fid.
func (e *Engine) Compute(ctx context.Context, fid, username string) (models.Comparison, error) {
	key := fid + "\x00" + username
	v, err, shared := e.inflight.Do(key, func() (interface{}, error) {
		return e.compute(ctx, fid, username)
	})
	if shared {
		logging.Ctx(ctx).Debug().Str("fid", fid).Str("username", username).Msg("Joined in-flight comparison")
	}
	if err != nil {
		return models.Comparison{}, err
	}
	return v.(models.Comparison), nil
}

func (e *Engine) compute(ctx context.Context, fid, username string) (cmp models.Comparison, err error) {
	start := time.Now()

	// Readers see the sentinel from here on, also while waiting for a slot.
	gen := e.store.MarkInProgress(fid)

	if err := e.acquire(ctx); err != nil {
		e.store.MarkFailed(fid, gen)
		if errors.Is(err, ErrBusy) {
			metrics.RecordComparison(outcomeBusy, time.Since(start))
		}
		logging.Ctx(ctx).Warn().Err(err).Str("fid", fid).Msg("No comparison slot available")
		return models.Comparison{}, err
	}
	defer e.slots.Release(1)

	metrics.ComparisonsInFlight.Inc()
	defer metrics.ComparisonsInFlight.Dec()

	ctx, span := e.tracer.Start(ctx, "similarity.compute", trace.WithAttributes(
		attribute.String("farmix.fid", fid),
		attribute.String("farmix.username", username),
		attribute.String("farmix.failure_mode", e.failureMode),
	))
	defer span.End()

	ctx = logging.ContextWithComparison(ctx, fid, username)

	defer func() {
		if r := recover(); r != nil {
			cmp, err = models.Comparison{}, fmt.Errorf("similarity comparison panicked: %v", r)
		}
		if err != nil {
			e.store.MarkFailed(fid, gen)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordComparison(outcomeFailed, time.Since(start))
			logging.Ctx(ctx).Error().Err(err).Msg("Similarity comparison failed")
		}
	}()

	cmp = models.Comparison{
		FID:         fid,
		Username:    username,
		FailureMode: e.failureMode,
		Dimensions:  []models.DimensionResult{},
	}

	primary, secondary, err := e.resolve(ctx, fid, username)
	if err != nil {
		return models.Comparison{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Comparison{}, err
	}

	if primary.IsNone() || secondary.IsNone() {
		e.store.Set(fid, gen, 0)
		cmp.ComputedAt = time.Now().UTC()
		cmp.DurationMS = time.Since(start).Milliseconds()
		span.SetAttributes(attribute.Bool("farmix.resolved", false))
		metrics.RecordComparison(outcomeUnresolved, time.Since(start))
		logging.Ctx(ctx).Info().
			Bool("fid_resolved", primary.IsSome()).
			Bool("username_resolved", secondary.IsSome()).
			Msg("Identity resolution failed, score set to 0")
		return cmp, nil
	}

	cmp.Resolved = true
	cmp.PrimaryAddress = primary.UnwrapOr("")
	cmp.SecondaryAddress = secondary.UnwrapOr("")

	a, b, err := e.collect(ctx, cmp.PrimaryAddress, cmp.SecondaryAddress)
	if err != nil {
		return models.Comparison{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Comparison{}, err
	}

	cmp.Dimensions = e.compare(a, b)
	cmp.Score = e.aggregate(cmp.Dimensions)

	e.store.Set(fid, gen, cmp.Score)
	cmp.ComputedAt = time.Now().UTC()
	cmp.DurationMS = time.Since(start).Milliseconds()

	span.SetAttributes(
		attribute.Bool("farmix.resolved", true),
		attribute.Float64("farmix.score", cmp.Score),
	)
	metrics.RecordComparison(outcomeScored, time.Since(start))
	logging.Ctx(ctx).Info().
		Float64("score", cmp.Score).
		Int64("duration_ms", cmp.DurationMS).
		Msg("Similarity computed")

	return cmp, nil
}

// acquire takes a comparison slot, waiting at most acquireTimeout.
func (e *Engine) acquire(ctx context.Context) error {
	acquireCtx := ctx
	if e.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, e.acquireTimeout)
		defer cancel()
	}
	if err := e.slots.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrBusy
	}
	return nil
}

// resolve resolves both identities concurrently.
func (e *Engine) resolve(ctx context.Context, fid, username string) (primary, secondary fn.Option[models.Address], err error) {
	ctx, span := e.tracer.Start(ctx, "similarity.resolve")
	defer span.End()

	var g errgroup.Group
	goSafe(&g, "fid resolution", func() {
		primary = e.resolver.ResolveByFID(ctx, fid)
	})
	goSafe(&g, "username resolution", func() {
		secondary = e.resolver.ResolveByUsername(ctx, username)
	})
	err = g.Wait()
	return primary, secondary, err
}

// collect fetches both addresses' dimensions concurrently.
func (e *Engine) collect(ctx context.Context, primary, secondary models.Address) (a, b fetch.Collection, err error) {
	ctx, span := e.tracer.Start(ctx, "similarity.collect")
	defer span.End()

	var g errgroup.Group
	goSafe(&g, "primary collection", func() {
		a = e.collector.Collect(ctx, primary)
	})
	goSafe(&g, "secondary collection", func() {
		b = e.collector.Collect(ctx, secondary)
	})
	err = g.Wait()
	return a, b, err
}

// goSafe runs f on g and reports a panic in f as an error.
func goSafe(g *errgroup.Group, name string, f func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		f()
		return nil
	})
}

// compare normalizes both collections and compares every dimension.
// Failed fetches contribute empty collections.
func (e *Engine) compare(a, b fetch.Collection) []models.DimensionResult {
	results := make([]models.DimensionResult, 0, len(models.Dimensions))

	for _, dim := range models.Dimensions {
		res := models.DimensionResult{Dimension: dim}

		switch dim {
		case models.DimensionNFT:
			r := similarity.ScalarOverlap(
				similarity.NFTImages(a.NFTs.UnwrapOr(nil)),
				similarity.NFTImages(b.NFTs.UnwrapOr(nil)))
			res.Ratio, res.Common = r.Ratio, r.Common
		case models.DimensionToken:
			r := similarity.ScalarOverlap(
				similarity.TokenTickers(a.Tokens.UnwrapOr(nil)),
				similarity.TokenTickers(b.Tokens.UnwrapOr(nil)))
			res.Ratio, res.Common = r.Ratio, r.Common
		case models.DimensionFollowing:
			r := similarity.ScalarOverlap(
				similarity.FollowingNames(a.Followings.UnwrapOr(nil)),
				similarity.FollowingNames(b.Followings.UnwrapOr(nil)))
			res.Ratio, res.Common = r.Ratio, r.Common
		case models.DimensionChannel:
			r := similarity.KeyedOverlap(
				similarity.ChannelMemberships(a.Channels.UnwrapOr(nil)),
				similarity.ChannelMemberships(b.Channels.UnwrapOr(nil)),
				similarity.ChannelKey)
			res.Ratio, res.Channels = r.Ratio, r.Common
		}

		res.Failed = a.Failed(dim) || b.Failed(dim)
		res.Excluded = res.Failed && e.failureMode == config.FailureModeExclude

		metrics.RecordDimension(string(dim), res.Ratio, res.Failed)
		results = append(results, res)
	}

	return results
}

// aggregate returns the unweighted mean of the included dimension ratios.
func (e *Engine) aggregate(results []models.DimensionResult) float64 {
	var sum float64
	n := 0
	for _, r := range results {
		if r.Excluded {
			continue
		}
		sum += r.Ratio
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
