// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/farmix/internal/config"
)

// CORSPolicy configures go-chi/cors.
type CORSPolicy struct {
	Origins          []string
	Methods          []string
	Headers          []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAgeSeconds    int
}

// RateLimitConfig defines a per-client request budget.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ChiMiddlewareConfig holds configuration for the Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORS              CORSPolicy
	RateLimit         RateLimitConfig
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc // default: client IP
}

// RateLimitHealth is the permissive budget of the health endpoints.
var RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

// DefaultChiMiddlewareConfig allows the methods of the existing web client,
// with credentials, and no origins until configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORS: CORSPolicy{
			Origins:          []string{},
			Methods:          []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			Headers:          []string{"Content-Type", "Authorization", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAgeSeconds:    86400,
		},
		RateLimit: RateLimitConfig{Requests: 60, Window: time.Minute},
	}
}

// NewChiMiddlewareFromConfig builds the middleware from the security section.
func NewChiMiddlewareFromConfig(cfg *config.SecurityConfig) *ChiMiddleware {
	mw := DefaultChiMiddlewareConfig()
	mw.CORS.Origins = cfg.CORSOrigins
	mw.RateLimit = RateLimitConfig{Requests: cfg.RateLimitReqs, Window: cfg.RateLimitWindow}
	mw.RateLimitDisabled = cfg.RateLimitDisabled
	return NewChiMiddleware(mw)
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factory; nil means DefaultChiMiddlewareConfig.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}
	p := cfg.CORS
	return &ChiMiddleware{
		config: cfg,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   p.Origins,
			AllowedMethods:   p.Methods,
			AllowedHeaders:   p.Headers,
			ExposedHeaders:   p.ExposedHeaders,
			AllowCredentials: p.AllowCredentials,
			MaxAge:           p.MaxAgeSeconds,
		}),
	}
}

// CORS returns the go-chi/cors middleware. It must be global so that OPTIONS
// preflights reach it before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the similarity endpoints' per-client limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimit, m.config.RateLimitKeyFunc)
}

// RateLimitHealth returns the health endpoints' per-IP limiter.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit(RateLimitHealth, nil)
}

func (m *ChiMiddleware) limit(rl RateLimitConfig, keyFunc httprate.KeyFunc) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	return httprate.Limit(rl.Requests, rl.Window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(rateLimited),
	)
}

// rateLimited answers requests rejected by httprate with the error envelope.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded, retry later", nil)
}

// APISecurityHeaders adds security headers to API responses.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
