// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

/*
Package validation wraps go-playground/validator for request validation.

A single *validator.Validate is built lazily and shared; it caches struct
metadata, so it must not be recreated per request. Field names in errors are
taken from json tags, so messages refer to the names clients actually send.

Two domain tags are registered in addition to the built-in ones:

  - fid: a Farcaster ID, decimal digits only, no leading zero, at most 20 digits
  - fname: a Farcaster username (lowercase letters, digits, hyphens, optional
    .eth suffix, at most 64 characters)

Usage:

	type SimilarityRequest struct {
	    FID      string `json:"fid" validate:"required,fid"`
	    Username string `json:"secondaryUsername" validate:"required,fname"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError() // Code: VALIDATION_ERROR
	}
*/
package validation
