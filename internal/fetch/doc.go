// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package fetch retrieves the raw per-dimension collections for a wallet.

There is one fetcher per similarity dimension:

  - nft: NFT holdings (chain-data provider)
  - token: fungible token balances (chain-data provider)
  - following: Farcaster followings (social-graph provider)
  - channel: Farcaster channel memberships (social-graph provider)

Each Fetch runs under its own timeout and returns a tagged fn.Result. A
timeout or upstream error becomes fn.Err; an empty upstream payload becomes
fn.Ok with an empty slice. How a failure enters the aggregate score is
decided by the caller.

Collector.Collect runs all four fetches for one address concurrently.
*/
package fetch
