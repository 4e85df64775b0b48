// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/tomtom215/farmix/internal/models"
)

// stubService is an in-memory SimilarityService.
type stubService struct {
	mu     sync.Mutex
	scores map[string]float64
	err    error
	calls  []computeCall
}

type computeCall struct {
	fid, username string
	ctxErr        error
}

func newStubService() *stubService {
	return &stubService{scores: make(map[string]float64)}
}

func (s *stubService) Compute(ctx context.Context, fid, username string) (models.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, computeCall{fid: fid, username: username, ctxErr: ctx.Err()})
	if s.err != nil {
		return models.Comparison{}, s.err
	}

	s.scores[fid] = 62.5
	return models.Comparison{
		FID:         fid,
		Username:    username,
		Resolved:    true,
		Score:       62.5,
		FailureMode: "zero",
		Dimensions: []models.DimensionResult{
			{Dimension: models.DimensionNFT, Ratio: 100, Common: []string{"ipfs://a"}},
			{Dimension: models.DimensionToken, Ratio: 50, Common: []string{"USDC"}},
			{Dimension: models.DimensionFollowing, Ratio: 0, Common: []string{}},
			{Dimension: models.DimensionChannel, Ratio: 100},
		},
		ComputedAt: time.Now(),
	}, nil
}

func (s *stubService) Score(fid string) fn.Option[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.scores[fid]
	if !ok {
		return fn.None[float64]()
	}
	return fn.Some(v)
}

func (s *stubService) lastCall(t *testing.T) computeCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		t.Fatal("Compute was not called")
	}
	return s.calls[len(s.calls)-1]
}

type stubStore int

func (s stubStore) Len() int { return int(s) }

type stubBreaker struct {
	name, state string
}

func (b stubBreaker) Name() string  { return b.name }
func (b stubBreaker) State() string { return b.state }

// newTestRouter builds the full router with rate limiting disabled.
func newTestRouter(t *testing.T, svc SimilarityService, breakers ...BreakerStatus) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORS.Origins = []string{"http://localhost:3000"}
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(svc, stubStore(3), breakers...), NewChiMiddleware(cfg)).SetupChi()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "error" {
		t.Errorf("envelope status = %q, want error", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", resp.Error, code)
	}
}
