// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/models"
	"github.com/tomtom215/farmix/internal/scoring"
)

// SimilarityService computes and serves similarity scores.
type SimilarityService interface {
	Compute(ctx context.Context, fid, username string) (models.Comparison, error)
	Score(fid string) fn.Option[float64]
}

// StoreSizer reports the number of entries in the score store.
type StoreSizer interface {
	Len() int
}

// BreakerStatus reports the state of an upstream circuit breaker.
type BreakerStatus interface {
	Name() string
	State() string
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	service   SimilarityService
	store     StoreSizer
	breakers  []BreakerStatus
	startTime time.Time
}

// NewHandler creates a handler. store and breakers may be nil.
func NewHandler(service SimilarityService, store StoreSizer, breakers ...BreakerStatus) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		breakers:  breakers,
		startTime: time.Now(),
	}
}

// compute runs a comparison detached from the client connection: a caller
// that disconnects can still poll for the stored score.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request, req *SimilarityRequest) (models.Comparison, bool) {
	ctx := context.WithoutCancel(r.Context())

	cmp, err := h.service.Compute(ctx, req.FID.String(), req.SecondaryUsername)
	if err == nil {
		return cmp, true
	}

	if errors.Is(err, scoring.ErrBusy) {
		w.Header().Set("Retry-After", "1")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceBusy,
			"Too many similarity comparisons in progress, retry later", nil, err)
		return models.Comparison{}, false
	}

	respondError(w, r, http.StatusInternalServerError, ErrCodeComputeFailed,
		"Failed to compute similarity score", nil, err)
	return models.Comparison{}, false
}

// CalculateSimilarity handles POST /calculateSimilarity. The response body is
// the bare score.
func (h *Handler) CalculateSimilarity(w http.ResponseWriter, r *http.Request) {
	var req SimilarityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cmp, ok := h.compute(w, r, &req)
	if !ok {
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("fid", req.FID.String()).
		Str("secondary_username", sanitizeLogValue(req.SecondaryUsername)).
		Float64("score", cmp.Score).
		Msg("Similarity computed")

	writeJSON(w, http.StatusOK, cmp.Score)
}

// GetSimilarityScore handles POST /getSimilarityScore. The response body is
// the bare score or null.
func (h *Handler) GetSimilarityScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, scorePointer(h.service.Score(req.FID.String())))
}

// ComputeSimilarity handles POST /api/v1/similarity and returns the full
// per-dimension breakdown.
func (h *Handler) ComputeSimilarity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SimilarityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cmp, ok := h.compute(w, r, &req)
	if !ok {
		return
	}

	respondJSON(w, r, http.StatusOK, cmp, start)
}

// GetScore handles GET /api/v1/similarity/{fid}.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	path := ScorePath{FID: chi.URLParam(r, "fid")}
	if apiErr := validateRequest(&path); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.ScoreLookup{
		FID:   path.FID,
		Score: scorePointer(h.service.Score(path.FID)),
	}, start)
}

// scorePointer maps an absent score to a JSON null.
func scorePointer(score fn.Option[float64]) *float64 {
	var out *float64
	score.WhenSome(func(v float64) {
		out = &v
	})
	return out
}
