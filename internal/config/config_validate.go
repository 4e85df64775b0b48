// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateAirstack,
		c.validateCovalent,
		c.validateSimilarity,
		c.validateStore,
		c.validateSecurity,
		c.validateLogging,
		c.validateTracing,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validEnvironments defines the allowed server environments
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAirstack() error {
	if c.Airstack.APIKey == "" {
		return fmt.Errorf("AIRSTACK_API_KEY is required")
	}
	if err := validateHTTPURL(c.Airstack.URL, "AIRSTACK_URL"); err != nil {
		return err
	}
	if c.Airstack.DappName == "" {
		return fmt.Errorf("AIRSTACK_DAPP_NAME must not be empty")
	}
	if c.Airstack.Blockchain == "" {
		return fmt.Errorf("AIRSTACK_BLOCKCHAIN must not be empty")
	}
	return validateClientLimits("AIRSTACK", c.Airstack.Timeout, c.Airstack.RateLimit, c.Airstack.RateBurst)
}

func (c *Config) validateCovalent() error {
	if c.Covalent.APIKey == "" {
		return fmt.Errorf("COVALENT_API_KEY is required")
	}
	if err := validateBaseURL(c.Covalent.URL, "COVALENT_URL"); err != nil {
		return err
	}
	if c.Covalent.Chain == "" || strings.ContainsAny(c.Covalent.Chain, "/?# ") {
		return fmt.Errorf("COVALENT_CHAIN must be a chain name such as base-mainnet, got %q", c.Covalent.Chain)
	}
	return validateClientLimits("COVALENT", c.Covalent.Timeout, c.Covalent.RateLimit, c.Covalent.RateBurst)
}

// validateClientLimits checks the shared timeout and rate limit settings of an upstream client.
// A rate limit of 0 disables client-side limiting.
func validateClientLimits(prefix string, timeout time.Duration, rateLimit float64, burst int) error {
	if timeout <= 0 {
		return fmt.Errorf("%s_TIMEOUT must be positive", prefix)
	}
	if rateLimit < 0 {
		return fmt.Errorf("%s_RATE_LIMIT must not be negative (0 means unlimited)", prefix)
	}
	if rateLimit > 0 && burst < 1 {
		return fmt.Errorf("%s_RATE_BURST must be at least 1", prefix)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	switch c.Similarity.FailureMode {
	case FailureModeZero, FailureModeExclude:
	default:
		return fmt.Errorf("SIMILARITY_FAILURE_MODE must be one of: %s, %s", FailureModeZero, FailureModeExclude)
	}
	if c.Similarity.FetchTimeout <= 0 {
		return fmt.Errorf("SIMILARITY_FETCH_TIMEOUT must be positive")
	}
	if c.Similarity.ResolveTimeout <= 0 {
		return fmt.Errorf("SIMILARITY_RESOLVE_TIMEOUT must be positive")
	}
	if c.Similarity.MaxConcurrent < 1 {
		return fmt.Errorf("SIMILARITY_MAX_CONCURRENT must be at least 1")
	}
	if c.Similarity.AcquireTimeout <= 0 {
		return fmt.Errorf("SIMILARITY_ACQUIRE_TIMEOUT must be positive")
	}
	// A comparison waits for a slot, then resolves, then fetches; the
	// response must still fit in the server's write deadline.
	if budget := c.ComparisonBudget(); c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= budget {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT (%v) must exceed SIMILARITY_ACQUIRE_TIMEOUT + "+
			"SIMILARITY_RESOLVE_TIMEOUT + SIMILARITY_FETCH_TIMEOUT (%v)", c.Server.WriteTimeout, budget)
	}
	return nil
}

// ComparisonBudget is the longest a single comparison can take before its
// stage timeouts fire.
func (c *Config) ComparisonBudget() time.Duration {
	return c.Similarity.AcquireTimeout + c.Similarity.ResolveTimeout + c.Similarity.FetchTimeout
}

// Store bounds
const (
	maxStoreShards = 1024
)

func (c *Config) validateStore() error {
	if c.Store.Shards < 1 || c.Store.Shards > maxStoreShards {
		return fmt.Errorf("STORE_SHARDS must be between 1 and %d", maxStoreShards)
	}
	if c.Store.Capacity < c.Store.Shards {
		return fmt.Errorf("STORE_CAPACITY (%d) must be at least STORE_SHARDS (%d)", c.Store.Capacity, c.Store.Shards)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("STORE_TTL must not be negative")
	}
	if c.Store.CleanupInterval <= 0 {
		return fmt.Errorf("STORE_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be flagged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) validateTracing() error {
	if !c.Tracing.Enabled {
		return nil
	}
	if err := validateHTTPURL(c.Tracing.Endpoint, "OTEL_ENDPOINT"); err != nil {
		return err
	}
	if c.Tracing.ServiceName == "" {
		return fmt.Errorf("OTEL_SERVICE_NAME must not be empty when tracing is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be between 0 and 1")
	}
	return nil
}
