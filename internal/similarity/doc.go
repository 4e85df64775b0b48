// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

// Package similarity normalizes raw provider records into comparable values
// and computes per-dimension overlap ratios.
//
// # Overlap
//
// Both algorithms compute
//
//	ratio = 100 * |A ∩ B| / max(|A|, |B|)
//
// over distinct values (ScalarOverlap) or distinct keys (KeyedOverlap). If
// either input is empty the result is {0, []}, so "nothing vs. nothing" is
// never treated as identical. Common is never nil and follows the order of
// the first input.
//
// # Normalization
//
// Normalizers project provider records onto the value each dimension is
// compared by (NFT image URI, token ticker, followed profile name, channel
// ID). Records missing that value are dropped. Normalization never fails.
package similarity
