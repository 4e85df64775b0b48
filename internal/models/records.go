// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package models

// Provider record types. Field names and json tags follow the upstream APIs.

// NFTAsset is one item of a Covalent balances_nft response.
type NFTAsset struct {
	ContractName    *string    `json:"contract_name"`
	ContractAddress *string    `json:"contract_address"`
	NFTData         []NFTToken `json:"nft_data"`
}

// NFTToken is one token held under an NFT contract.
type NFTToken struct {
	TokenID      *string          `json:"token_id"`
	ExternalData *NFTExternalData `json:"external_data"`
}

// NFTExternalData is the off-chain metadata of an NFT token.
type NFTExternalData struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// TokenBalance is one item of a Covalent balances_v2 response.
type TokenBalance struct {
	ContractName         *string `json:"contract_name"`
	ContractTickerSymbol *string `json:"contract_ticker_symbol"`
	ContractAddress      *string `json:"contract_address"`
	Balance              *string `json:"balance"`
}

// Following is one item of an Airstack SocialFollowings response.
type Following struct {
	FollowingAddress *FollowingAddress `json:"followingAddress"`
}

// FollowingAddress is the followed wallet and its linked social profiles.
type FollowingAddress struct {
	Socials []LinkedSocial `json:"socials"`
}

// LinkedSocial is one social profile linked to a wallet.
type LinkedSocial struct {
	ProfileName *string `json:"profileName"`
	DappName    *string `json:"dappName"`
}

// ChannelParticipant is one item of an Airstack FarcasterChannelParticipants response.
type ChannelParticipant struct {
	ChannelID   *string      `json:"channelId"`
	ChannelName *string      `json:"channelName"`
	Channel     *ChannelInfo `json:"channel"`
}

// ChannelInfo is the channel detail attached to a participation record.
type ChannelInfo struct {
	ImageURL *string `json:"imageUrl"`
}

// deref returns *s or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FirstImage returns the first token's external image URI, or "".
func (a NFTAsset) FirstImage() string {
	if len(a.NFTData) == 0 || a.NFTData[0].ExternalData == nil {
		return ""
	}
	return deref(a.NFTData[0].ExternalData.Image)
}

// Ticker returns the contract ticker symbol, or "".
func (b TokenBalance) Ticker() string {
	return deref(b.ContractTickerSymbol)
}

// FirstProfileName returns the first linked social's profile name, or "".
func (f Following) FirstProfileName() string {
	if f.FollowingAddress == nil || len(f.FollowingAddress.Socials) == 0 {
		return ""
	}
	return deref(f.FollowingAddress.Socials[0].ProfileName)
}

// Membership projects the participation record into a ChannelMembership.
func (p ChannelParticipant) Membership() ChannelMembership {
	m := ChannelMembership{
		ChannelID:   deref(p.ChannelID),
		ChannelName: deref(p.ChannelName),
	}
	if p.Channel != nil {
		m.ImageURL = deref(p.Channel.ImageURL)
	}
	return m
}
