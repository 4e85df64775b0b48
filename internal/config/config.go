// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package config

import "time"

// Failure modes for dimension fetches that return an error.
const (
	// FailureModeZero counts a failed fetch as an empty collection (ratio 0).
	FailureModeZero = "zero"
	// FailureModeExclude drops a failed dimension from the mean.
	FailureModeExclude = "exclude"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Airstack   AirstackConfig   `koanf:"airstack"`
	Covalent   CovalentConfig   `koanf:"covalent"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Store      StoreConfig      `koanf:"store"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Tracing    TracingConfig    `koanf:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// AirstackConfig holds settings for the Airstack social-graph GraphQL API.
type AirstackConfig struct {
	URL        string        `koanf:"url"`
	APIKey     string        `koanf:"api_key"`
	DappName   string        `koanf:"dapp_name"`
	Blockchain string        `koanf:"blockchain"` // chain used for identity resolution
	Timeout    time.Duration `koanf:"timeout"`

	// RateLimit is the client-side request budget in requests per second.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// CovalentConfig holds settings for the Covalent chain-data REST API.
type CovalentConfig struct {
	URL          string        `koanf:"url"`
	APIKey       string        `koanf:"api_key"`
	Chain        string        `koanf:"chain"`
	Timeout      time.Duration `koanf:"timeout"`
	RateLimit    float64       `koanf:"rate_limit"`
	RateBurst    int           `koanf:"rate_burst"`
	WithUncached bool          `koanf:"with_uncached"`
}

// SimilarityConfig controls how comparisons are computed.
type SimilarityConfig struct {
	// FailureMode is "zero" or "exclude". See FailureModeZero and FailureModeExclude.
	FailureMode    string        `koanf:"failure_mode"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	ResolveTimeout time.Duration `koanf:"resolve_timeout"`

	// MaxConcurrent caps simultaneous comparisons; AcquireTimeout bounds the wait for a slot.
	MaxConcurrent  int64         `koanf:"max_concurrent"`
	AcquireTimeout time.Duration `koanf:"acquire_timeout"`
}

// StoreConfig sizes the in-memory score store.
type StoreConfig struct {
	Capacity        int           `koanf:"capacity"`
	Shards          int           `koanf:"shards"`
	TTL             time.Duration `koanf:"ttl"` // 0 disables expiry
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds CORS and inbound rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// TracingConfig controls OpenTelemetry trace export.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"` // OTLP/HTTP endpoint URL
	ServiceName string  `koanf:"service_name"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// Load reads the optional .env file and then loads layered configuration.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}
