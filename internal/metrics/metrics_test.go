// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/similarity", "200"))

	RecordAPIRequest("POST", "/api/v1/similarity", "200", 150*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/similarity", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 2 {
		t.Errorf("active requests after two increments = %v, want 2", got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	errs := UpstreamRequestErrors.WithLabelValues("covalent", "balances_nft")
	before := testutil.ToFloat64(errs)

	RecordUpstreamRequest("covalent", "balances_nft", 200*time.Millisecond, nil)
	if got := testutil.ToFloat64(errs); got != before {
		t.Errorf("successful request counted as error: %v", got-before)
	}

	RecordUpstreamRequest("covalent", "balances_nft", time.Second, errors.New("status 500"))
	if got := testutil.ToFloat64(errs) - before; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestRecordComparison(t *testing.T) {
	tests := []string{"scored", "unresolved", "failed", "busy"}
	for _, outcome := range tests {
		t.Run(outcome, func(t *testing.T) {
			c := ComparisonsTotal.WithLabelValues(outcome)
			before := testutil.ToFloat64(c)
			RecordComparison(outcome, 2*time.Second)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("%s delta = %v, want 1", outcome, got)
			}
		})
	}
}

func TestRecordDimension(t *testing.T) {
	failures := DimensionFetchFailures.WithLabelValues("token")
	before := testutil.ToFloat64(failures)

	RecordDimension("token", 50, false)
	RecordDimension("token", 0, true)

	if got := testutil.ToFloat64(failures) - before; got != 1 {
		t.Errorf("fetch failure delta = %v, want 1", got)
	}

	if n := testutil.CollectAndCount(DimensionRatio); n < 1 {
		t.Errorf("dimension ratio series = %d, want at least 1", n)
	}
}

func TestRecordIdentityResolution(t *testing.T) {
	resolved := IdentityResolutions.WithLabelValues("fid", "resolved")
	unresolved := IdentityResolutions.WithLabelValues("username", "unresolved")
	r0, u0 := testutil.ToFloat64(resolved), testutil.ToFloat64(unresolved)

	RecordIdentityResolution("fid", true)
	RecordIdentityResolution("username", false)

	if testutil.ToFloat64(resolved)-r0 != 1 {
		t.Error("resolved fid not counted")
	}
	if testutil.ToFloat64(unresolved)-u0 != 1 {
		t.Error("unresolved username not counted")
	}
}

func TestRecordScoreLookup(t *testing.T) {
	h0, m0 := testutil.ToFloat64(ScoreStoreHits), testutil.ToFloat64(ScoreStoreMisses)

	RecordScoreLookup(true)
	RecordScoreLookup(false)
	RecordScoreLookup(false)

	if got := testutil.ToFloat64(ScoreStoreHits) - h0; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ScoreStoreMisses) - m0; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}
