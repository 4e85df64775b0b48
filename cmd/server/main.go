// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/farmix/internal/api"
	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/fetch"
	"github.com/tomtom215/farmix/internal/identity"
	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/scoring"
	"github.com/tomtom215/farmix/internal/sources"
	"github.com/tomtom215/farmix/internal/supervisor"
	"github.com/tomtom215/farmix/internal/supervisor/services"
	"github.com/tomtom215/farmix/internal/tracing"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("failure_mode", cfg.Similarity.FailureMode).
		Int("store_capacity", cfg.Store.Capacity).
		Msg("Starting Farmix with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, &cfg.Tracing)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("Error flushing traces")
		}
	}()

	// Upstream clients behind circuit breakers
	airstack := sources.NewAirstackCircuitBreakerClient(&cfg.Airstack)
	covalent := sources.NewCovalentCircuitBreakerClient(&cfg.Covalent)

	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Airstack.Timeout)
	if err := airstack.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Msg("Failed to reach Airstack (comparisons will retry)")
	} else {
		logging.Info().Msg("Connected to Airstack successfully")
	}
	pingCancel()

	// Scoring pipeline
	resolver := identity.NewResolver(airstack, cfg.Similarity.ResolveTimeout)
	collector := fetch.NewCollector(airstack, covalent, cfg.Similarity.FetchTimeout)
	store := scoring.NewScoreStore(&cfg.Store)
	engine := scoring.NewEngine(resolver, collector, store, &cfg.Similarity)

	handler := api.NewHandler(engine, store, airstack, covalent)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddCacheService(services.NewJanitorService("score-store-janitor", store, cfg.Store.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one result.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
