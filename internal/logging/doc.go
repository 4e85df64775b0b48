// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

// Package logging provides centralized zerolog-based structured logging for Farmix.
//
// A single global logger is configured once at startup from the logging
// section of the configuration and is then used by every component:
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("fid", fid).Msg("Similarity requested")
//	logging.Error().Err(err).Str("provider", "airstack").Msg("Upstream request failed")
//
// # Context-Aware Logging
//
// The HTTP layer stores a request ID and a correlation ID in the request
// context. Ctx returns a logger carrying both, so every log line emitted while
// serving one comparison can be joined together:
//
//	logging.Ctx(ctx).Info().Float64("score", score).Msg("Similarity computed")
//
// # Component Loggers
//
//	log := logging.WithComponent("scoring")
//	log.Debug().Str("dimension", "nft").Msg("Dimension compared")
//
// # slog Adapter
//
// The suture supervisor logs through log/slog via sutureslog. NewSlogLogger
// returns an *slog.Logger whose records are written by zerolog.
//
// # Output Formats
//
// JSON (production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Server starting","port":8081}
//
// Console (development):
//
//	10:30:00 INF Server starting port=8081
//
// Always terminate a chain with Msg or Send; an unterminated event is dropped.
package logging
