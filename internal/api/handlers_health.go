// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/farmix/internal/models"
)

const (
	healthOK       = "ok"
	healthDegraded = "degraded"

	breakerOpen = "open"
)

// HealthLive handles GET /api/v1/health/live. It succeeds whenever the
// process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, r, http.StatusOK, h.healthStatus(), start)
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 while any
// upstream circuit breaker is open, since no comparison can succeed.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.healthStatus()

	code := http.StatusOK
	if status.Status != healthOK {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, r, code, status, start)
}

func (h *Handler) healthStatus() *models.HealthStatus {
	status := &models.HealthStatus{
		Status: healthOK,
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.store != nil {
		status.StoreSize = h.store.Len()
	}

	if len(h.breakers) > 0 {
		status.Breakers = make(map[string]string, len(h.breakers))
		for _, b := range h.breakers {
			state := b.State()
			status.Breakers[b.Name()] = state
			if state == breakerOpen {
				status.Status = healthDegraded
			}
		}
	}
	return status
}
