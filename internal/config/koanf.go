// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/farmix/config.yaml",
	"/etc/farmix/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is the dotenv file loaded before environment variables are read.
var DotEnvFile = ".env"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8081,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second, // a full comparison fans out to ten upstream calls
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Airstack: AirstackConfig{
			URL:        "https://api.airstack.xyz/gql",
			APIKey:     "",
			DappName:   "farcaster",
			Blockchain: "ethereum",
			Timeout:    20 * time.Second,
			RateLimit:  10,
			RateBurst:  10,
		},
		Covalent: CovalentConfig{
			URL:          "https://api.covalenthq.com",
			APIKey:       "",
			Chain:        "base-mainnet",
			Timeout:      20 * time.Second,
			RateLimit:    4,
			RateBurst:    4,
			WithUncached: true,
		},
		Similarity: SimilarityConfig{
			FailureMode:    FailureModeZero,
			FetchTimeout:   30 * time.Second,
			ResolveTimeout: 15 * time.Second,
			MaxConcurrent:  32,
			AcquireTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Capacity:        100000,
			Shards:          16,
			TTL:             24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{
				"http://localhost:3000",
				"https://farmix-web3bytes.vercel.app",
				"https://main.d1mk2y9g4ss2pn.amplifyapp.com",
			},
			RateLimitReqs:     60,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "http://localhost:4318",
			ServiceName: "farmix",
			SampleRatio: 1.0,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads DotEnvFile into the process environment when it exists.
// Variables already set in the environment are not overwritten.
func loadDotEnv() error {
	if _, err := os.Stat(DotEnvFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML values are already slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf config paths.
var envMappings = map[string]string{
	// Server
	"port":                  "server.port",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Airstack
	"airstack_url":        "airstack.url",
	"airstack_api_key":    "airstack.api_key",
	"airstack_dapp_name":  "airstack.dapp_name",
	"airstack_blockchain": "airstack.blockchain",
	"airstack_timeout":    "airstack.timeout",
	"airstack_rate_limit": "airstack.rate_limit",
	"airstack_rate_burst": "airstack.rate_burst",

	// Covalent
	"covalent_url":           "covalent.url",
	"covalent_api_key":       "covalent.api_key",
	"covalent_chain":         "covalent.chain",
	"covalent_timeout":       "covalent.timeout",
	"covalent_rate_limit":    "covalent.rate_limit",
	"covalent_rate_burst":    "covalent.rate_burst",
	"covalent_with_uncached": "covalent.with_uncached",

	// Similarity
	"similarity_failure_mode":    "similarity.failure_mode",
	"similarity_fetch_timeout":   "similarity.fetch_timeout",
	"similarity_resolve_timeout": "similarity.resolve_timeout",
	"similarity_max_concurrent":  "similarity.max_concurrent",
	"similarity_acquire_timeout": "similarity.acquire_timeout",

	// Store
	"store_capacity":         "store.capacity",
	"store_shards":           "store.shards",
	"store_ttl":              "store.ttl",
	"store_cleanup_interval": "store.cleanup_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Tracing
	"otel_enabled":      "tracing.enabled",
	"otel_endpoint":     "tracing.endpoint",
	"otel_service_name": "tracing.service_name",
	"otel_sample_ratio": "tracing.sample_ratio",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PORT -> server.port
//   - AIRSTACK_API_KEY -> airstack.api_key
//   - SIMILARITY_FAILURE_MODE -> similarity.failure_mode
//
// Unmapped keys return "" and are skipped, so unrelated environment variables
// never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
