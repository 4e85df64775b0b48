// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/farmix/internal/scoring"
)

// =====================================================
// Legacy Endpoints
// =====================================================

func TestCalculateSimilarity_ReturnsBareScore(t *testing.T) {
	svc := newStubService()
	h := newTestRouter(t, svc)

	rec := postJSON(t, h, "/calculateSimilarity", `{"fid": 3, "secondaryUsername": "Dwr.eth "}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "62.5" {
		t.Errorf("body = %q, want 62.5", got)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}

	call := svc.lastCall(t)
	if call.fid != "3" || call.username != "dwr.eth" {
		t.Errorf("Compute(%q, %q), want (3, dwr.eth)", call.fid, call.username)
	}
}

func TestCalculateSimilarity_StringFID(t *testing.T) {
	svc := newStubService()
	h := newTestRouter(t, svc)

	rec := postJSON(t, h, "/calculateSimilarity", `{"fid": "194", "secondaryUsername": "v"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if call := svc.lastCall(t); call.fid != "194" {
		t.Errorf("fid = %q, want 194", call.fid)
	}
}

func TestCalculateSimilarity_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"malformed json", `{"fid": 3,`},
		{"missing fid", `{"secondaryUsername": "dwr"}`},
		{"zero fid", `{"fid": 0, "secondaryUsername": "dwr"}`},
		{"negative fid", `{"fid": -4, "secondaryUsername": "dwr"}`},
		{"fractional fid", `{"fid": 1.5, "secondaryUsername": "dwr"}`},
		{"non numeric fid", `{"fid": "abc", "secondaryUsername": "dwr"}`},
		{"missing username", `{"fid": 3}`},
		{"blank username", `{"fid": 3, "secondaryUsername": "   "}`},
		{"username with spaces", `{"fid": 3, "secondaryUsername": "d w r"}`},
		{"oversized body", fmt.Sprintf(`{"fid": 3, "secondaryUsername": "%s"}`, strings.Repeat("a", maxRequestBodySize))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService()
			h := newTestRouter(t, svc)

			rec := postJSON(t, h, "/calculateSimilarity", tt.body)
			assertErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
			if len(svc.calls) != 0 {
				t.Errorf("Compute called %d times for an invalid request", len(svc.calls))
			}
		})
	}
}

func TestCalculateSimilarity_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"busy", scoring.ErrBusy, http.StatusServiceUnavailable, ErrCodeServiceBusy},
		{"wrapped busy", fmt.Errorf("compute: %w", scoring.ErrBusy), http.StatusServiceUnavailable, ErrCodeServiceBusy},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeComputeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService()
			svc.err = tt.err
			h := newTestRouter(t, svc)

			rec := postJSON(t, h, "/calculateSimilarity", `{"fid": 3, "secondaryUsername": "dwr"}`)
			assertErrorCode(t, rec, tt.status, tt.code)

			if strings.Contains(rec.Body.String(), "boom") {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestCalculateSimilarity_DetachedFromClient(t *testing.T) {
	svc := newStubService()
	h := newTestRouter(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/calculateSimilarity",
		strings.NewReader(`{"fid": 3, "secondaryUsername": "dwr"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if call := svc.lastCall(t); call.ctxErr != nil {
		t.Errorf("Compute context error = %v, want nil", call.ctxErr)
	}
}

func TestGetSimilarityScore(t *testing.T) {
	svc := newStubService()
	svc.scores["3"] = 41.25
	h := newTestRouter(t, svc)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"known fid", `{"fid": 3}`, "41.25"},
		{"known fid as string", `{"fid": "3"}`, "41.25"},
		{"unknown fid", `{"fid": 99}`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/getSimilarityScore", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetSimilarityScore_Invalid(t *testing.T) {
	h := newTestRouter(t, newStubService())
	rec := postJSON(t, h, "/getSimilarityScore", `{"fid": "x"}`)
	assertErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
}

func TestCalculateThenPoll(t *testing.T) {
	svc := newStubService()
	h := newTestRouter(t, svc)

	if rec := postJSON(t, h, "/getSimilarityScore", `{"fid": 5}`); strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("score before compute = %s, want null", rec.Body.String())
	}
	postJSON(t, h, "/calculateSimilarity", `{"fid": 5, "secondaryUsername": "dwr"}`)
	if rec := postJSON(t, h, "/getSimilarityScore", `{"fid": 5}`); strings.TrimSpace(rec.Body.String()) != "62.5" {
		t.Fatalf("score after compute = %s, want 62.5", rec.Body.String())
	}
}

// =====================================================
// Versioned Endpoints
// =====================================================

func TestComputeSimilarity_Envelope(t *testing.T) {
	h := newTestRouter(t, newStubService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/similarity",
		strings.NewReader(`{"fid": 3, "secondaryUsername": "dwr"}`))
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			FID        string  `json:"fid"`
			Score      float64 `json:"score"`
			Resolved   bool    `json:"resolved"`
			Dimensions []struct {
				Dimension string   `json:"dimension"`
				Ratio     float64  `json:"ratio"`
				Common    []string `json:"common"`
			} `json:"dimensions"`
		} `json:"data"`
		Metadata struct {
			RequestID string `json:"request_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Data.FID != "3" || resp.Data.Score != 62.5 || !resp.Data.Resolved {
		t.Errorf("data = %+v", resp.Data)
	}
	if len(resp.Data.Dimensions) != 4 {
		t.Fatalf("dimensions = %d, want 4", len(resp.Data.Dimensions))
	}
	if resp.Data.Dimensions[1].Common[0] != "USDC" {
		t.Errorf("tokens common = %v, want [USDC]", resp.Data.Dimensions[1].Common)
	}
	if resp.Metadata.RequestID != "req-123" {
		t.Errorf("request_id = %q, want req-123", resp.Metadata.RequestID)
	}
}

func TestComputeSimilarity_Busy(t *testing.T) {
	svc := newStubService()
	svc.err = scoring.ErrBusy
	h := newTestRouter(t, svc)

	rec := postJSON(t, h, "/api/v1/similarity", `{"fid": 3, "secondaryUsername": "dwr"}`)
	assertErrorCode(t, rec, http.StatusServiceUnavailable, ErrCodeServiceBusy)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestGetScore(t *testing.T) {
	svc := newStubService()
	svc.scores["3"] = 80
	h := newTestRouter(t, svc)

	tests := []struct {
		name      string
		path      string
		wantScore *float64
	}{
		{"known", "/api/v1/similarity/3", ptr(80)},
		{"unknown", "/api/v1/similarity/4", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getPath(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var resp struct {
				Data struct {
					FID   string   `json:"fid"`
					Score *float64 `json:"score"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			switch {
			case tt.wantScore == nil && resp.Data.Score != nil:
				t.Errorf("score = %v, want null", *resp.Data.Score)
			case tt.wantScore != nil && (resp.Data.Score == nil || *resp.Data.Score != *tt.wantScore):
				t.Errorf("score = %v, want %v", resp.Data.Score, *tt.wantScore)
			}
		})
	}
}

func TestGetScore_InvalidFID(t *testing.T) {
	h := newTestRouter(t, newStubService())
	rec := getPath(t, h, "/api/v1/similarity/abc")
	assertErrorCode(t, rec, http.StatusBadRequest, ErrCodeValidation)
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	h := newTestRouter(t, newStubService())

	assertErrorCode(t, getPath(t, h, "/nope"), http.StatusNotFound, ErrCodeNotFound)
	assertErrorCode(t, getPath(t, h, "/calculateSimilarity"), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed)
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, newStubService())
	postJSON(t, h, "/getSimilarityScore", `{"fid": 1}`)

	rec := getPath(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output has no api_requests_total series")
	}
}

func ptr(v float64) *float64 { return &v }
