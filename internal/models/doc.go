// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package models defines the data structures shared across Farmix.

Model Categories:

1. Identity:
  - Identity, IdentityKind: an FID or username awaiting resolution
  - Address: a lowercase hex wallet address

2. Provider records (decoded straight from upstream JSON):
  - NFTAsset, TokenBalance: Covalent balances_nft / balances_v2 items
  - Following, ChannelParticipant: Airstack SocialFollowings / FarcasterChannelParticipants

Every nested provider field is a pointer or a nil-able slice. A missing or
null field decodes to nil and is treated as absent data by the normalizer.

3. Comparison results:
  - Dimension: nft, token, following, channel
  - ChannelMembership: normalized channel record
  - DimensionResult, Comparison: per-dimension ratios and the aggregate score

4. API envelope:
  - APIResponse, Metadata, APIError
*/
package models
