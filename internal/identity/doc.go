// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

// Package identity resolves Farcaster identities (numeric FIDs and usernames)
// to a canonical wallet address through the social-graph provider.
//
// Resolution never fails loudly: a missing profile, a profile without
// connected addresses, an empty address, or any upstream error all yield
// fn.None. Upstream errors are logged at warn level.
package identity
