// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package models

import "time"

// Dimension is one comparable facet of an identity.
type Dimension string

const (
	DimensionNFT       Dimension = "nft"
	DimensionToken     Dimension = "token"
	DimensionFollowing Dimension = "following"
	DimensionChannel   Dimension = "channel"
)

// Dimensions lists every dimension in the order they are reported.
var Dimensions = []Dimension{DimensionNFT, DimensionToken, DimensionFollowing, DimensionChannel}

// ChannelMembership is a normalized channel record keyed by ChannelID.
type ChannelMembership struct {
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// DimensionResult is the comparison outcome for one dimension.
//
// Common holds the shared scalar values for nft, token and following;
// Channels holds the shared records for the channel dimension. Failed is set
// when either side's fetch returned an error; Excluded when that failure
// removed the dimension from the mean.
type DimensionResult struct {
	Dimension Dimension           `json:"dimension"`
	Ratio     float64             `json:"ratio"`
	Common    []string            `json:"common,omitempty"`
	Channels  []ChannelMembership `json:"channels,omitempty"`
	Failed    bool                `json:"failed,omitempty"`
	Excluded  bool                `json:"excluded,omitempty"`
}

// Comparison is the full breakdown of one similarity computation.
type Comparison struct {
	FID              string            `json:"fid"`
	Username         string            `json:"secondary_username"`
	PrimaryAddress   Address           `json:"primary_address,omitempty"`
	SecondaryAddress Address           `json:"secondary_address,omitempty"`
	Resolved         bool              `json:"resolved"`
	Score            float64           `json:"score"`
	FailureMode      string            `json:"failure_mode"`
	Dimensions       []DimensionResult `json:"dimensions"`
	ComputedAt       time.Time         `json:"computed_at"`
	DurationMS       int64             `json:"duration_ms"`
}
