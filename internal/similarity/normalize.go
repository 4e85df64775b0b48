// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package similarity

import (
	"github.com/tomtom215/farmix/internal/models"
)

// NFTImages projects NFT assets onto their first token's image URI.
func NFTImages(assets []models.NFTAsset) []string {
	return project(assets, models.NFTAsset.FirstImage)
}

// TokenTickers projects token balances onto their ticker symbol.
func TokenTickers(balances []models.TokenBalance) []string {
	return project(balances, models.TokenBalance.Ticker)
}

// FollowingNames projects followings onto the first linked profile name.
func FollowingNames(followings []models.Following) []string {
	return project(followings, models.Following.FirstProfileName)
}

// ChannelMemberships projects channel participations onto memberships keyed
// by channel ID. Records without a channel ID are dropped.
func ChannelMemberships(participants []models.ChannelParticipant) []models.ChannelMembership {
	out := make([]models.ChannelMembership, 0, len(participants))
	for _, p := range participants {
		m := p.Membership()
		if m.ChannelID == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ChannelKey is the comparison key of a channel membership.
func ChannelKey(m models.ChannelMembership) string {
	return m.ChannelID
}

// project maps records through value, dropping empty results.
func project[T any](records []T, value func(T) string) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if v := value(rec); v != "" {
			out = append(out, v)
		}
	}
	return out
}
