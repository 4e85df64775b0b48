// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package similarity

// Result is the outcome of comparing two collections.
type Result[T any] struct {
	Ratio  float64
	Common []T
}

// empty is the result for an empty input on either side.
func empty[T any]() Result[T] {
	return Result[T]{Ratio: 0, Common: []T{}}
}

// ScalarOverlap compares two scalar sequences as sets.
func ScalarOverlap[T comparable](a, b []T) Result[T] {
	return KeyedOverlap(a, b, func(v T) T { return v })
}

// KeyedOverlap compares two record sequences by key. Common holds one record
// per key from a whose key also appears in b, ordered by the key's first
// position in a. When a key repeats in a, its last record wins.
func KeyedOverlap[T any, K comparable](a, b []T, key func(T) K) Result[T] {
	if len(a) == 0 || len(b) == 0 {
		return empty[T]()
	}

	keysB := make(map[K]struct{}, len(b))
	for _, rec := range b {
		keysB[key(rec)] = struct{}{}
	}

	// index into common per key seen in a, -1 when b lacks the key
	seenA := make(map[K]int, len(a))
	common := make([]T, 0)
	for _, rec := range a {
		k := key(rec)
		if i, dup := seenA[k]; dup {
			if i >= 0 {
				common[i] = rec
			}
			continue
		}
		if _, ok := keysB[k]; ok {
			seenA[k] = len(common)
			common = append(common, rec)
		} else {
			seenA[k] = -1
		}
	}

	denominator := max(len(seenA), len(keysB))
	return Result[T]{
		Ratio:  100 * float64(len(common)) / float64(denominator),
		Common: common,
	}
}
