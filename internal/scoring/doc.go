// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package scoring orchestrates similarity comparisons and keeps the score store.

# Compute Flow

Engine.Compute(fid, username):

 1. Mark the stored score for fid as in progress. Readers see null until the
    comparison finishes.
 2. Acquire a comparison slot (bounded by similarity.max_concurrent). If no
    slot frees up within similarity.acquire_timeout, the entry is marked
    failed and ErrBusy is returned.
 3. Resolve both identities concurrently. If either does not resolve, store 0
    and return an unresolved comparison with score 0.
 4. Collect the four dimensions for both addresses concurrently (8 fetches).
 5. Normalize, compare each dimension and combine the ratios by the
    configured failure mode:
    - zero: a failed fetch counts as an empty collection (ratio 0) and the
      score is the mean of all four ratios.
    - exclude: a dimension whose fetch failed on either side is left out of
      the mean. If no dimension remains the score is 0.
 6. Store the final score and return the full breakdown.

If the caller's context ends during steps 3 to 5, or the comparison panics,
the entry is marked failed (reads return null) and an error is returned.

Concurrent Compute calls with the same (fid, username) share one comparison.

# Score Store

ScoreStore wraps cache.ShardedLRU. Each MarkInProgress issues a generation
number; Set and MarkFailed only land if the entry still carries that
generation, so an older comparison never overwrites the sentinel of a newer
one for the same fid.
*/
package scoring
