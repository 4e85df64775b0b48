// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package models

import "strings"

// IdentityKind says how an Identity's RawID is interpreted.
type IdentityKind int

const (
	// KindFID is a numeric Farcaster ID.
	KindFID IdentityKind = iota
	// KindUsername is a Farcaster username (fname).
	KindUsername
)

func (k IdentityKind) String() string {
	switch k {
	case KindFID:
		return "fid"
	case KindUsername:
		return "username"
	default:
		return "unknown"
	}
}

// Identity is an unresolved identity descriptor. It lives for one request.
type Identity struct {
	RawID string
	Kind  IdentityKind
}

// FIDIdentity returns an Identity for a numeric Farcaster ID.
func FIDIdentity(fid string) Identity {
	return Identity{RawID: fid, Kind: KindFID}
}

// UsernameIdentity returns an Identity for a Farcaster username.
func UsernameIdentity(username string) Identity {
	return Identity{RawID: username, Kind: KindUsername}
}

// Address is a canonical (lowercase, trimmed) hex wallet address.
type Address string

// NewAddress canonicalizes a raw address string.
func NewAddress(raw string) Address {
	return Address(strings.ToLower(strings.TrimSpace(raw)))
}

func (a Address) String() string {
	return string(a)
}
