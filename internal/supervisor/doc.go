// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package supervisor provides process supervision for Farmix using suture v4.

The supervisor tree organizes long-running services into two layers:

	RootSupervisor ("farmix")
	├── CacheSupervisor ("cache-layer")
	│   └── JanitorService (score store expiry sweep)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff without affecting the
other layer: a panicking sweep never takes the HTTP server down.

Supervisor events are logged through sutureslog using the slog adapter from
internal/logging, so restarts and backoffs appear in the zerolog output.

See the services subpackage for the suture.Service wrappers.
*/
package supervisor
