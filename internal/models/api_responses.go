// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package models

import "time"

// APIResponse is the envelope returned by every /api/v1 endpoint.
//
// Status is "success" or "error". On error, Error is populated and Data is null:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-01-03T12:00:00Z"},
//	  "error": {"code": "VALIDATION_ERROR", "message": "fid is required", "details": {"field": "fid"}}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured details.
// Code is machine-readable (VALIDATION_ERROR, SERVICE_BUSY, COMPUTE_FAILED, ...).
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ScoreLookup is the data payload of GET /api/v1/similarity/{fid}.
// Score is null when the FID was never computed, is being recomputed, or failed.
type ScoreLookup struct {
	FID   string   `json:"fid"`
	Score *float64 `json:"score"`
}

// HealthStatus is the data payload of the health endpoints.
type HealthStatus struct {
	Status    string            `json:"status"` // ok, degraded
	Uptime    string            `json:"uptime"`
	Breakers  map[string]string `json:"circuit_breakers,omitempty"`
	StoreSize int               `json:"store_entries"`
}
