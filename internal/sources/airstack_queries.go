// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package sources

import (
	"fmt"

	"github.com/tomtom215/farmix/internal/models"
)

// Social lookup fields accepted by GetSocialAddresses.
const (
	SocialFieldUserID      = "userId"
	SocialFieldProfileName = "profileName"
)

// socialsQueryTemplate resolves a Farcaster identity to its connected
// addresses. The %s verb is filled with a whitelisted filter field only.
const socialsQueryTemplate = `query SocialAddresses($value: String!, $dappName: SocialDappName!, $blockchain: Blockchain!) {
  Socials(
    input: {filter: {dappName: {_eq: $dappName}, %s: {_eq: $value}}, blockchain: $blockchain}
  ) {
    Social {
      connectedAddresses {
        address
      }
    }
  }
}`

const followingsQuery = `query Followings($identity: Identity!, $dappName: SocialDappName!) {
  Farcaster: SocialFollowings(
    input: {filter: {identity: {_in: [$identity]}, dappName: {_eq: $dappName}}, blockchain: ALL}
  ) {
    Following {
      followingAddress {
        socials(input: {filter: {dappName: {_eq: $dappName}}}) {
          profileName
          dappName
        }
      }
    }
  }
}`

const channelsQuery = `query ChannelMemberships($identity: Identity!) {
  FarcasterChannelParticipants(
    input: {filter: {channelActions: {_eq: follow}, participant: {_in: [$identity]}}, blockchain: ALL}
  ) {
    FarcasterChannelParticipant {
      channelId
      channelName
      channel {
        imageUrl
      }
    }
  }
}`

// pingQuery is the cheapest valid query, used for readiness checks.
const pingQuery = `query Ping { __typename }`

// socialsQuery returns the Socials query for a whitelisted filter field.
func socialsQuery(field string) (string, error) {
	switch field {
	case SocialFieldUserID, SocialFieldProfileName:
		return fmt.Sprintf(socialsQueryTemplate, field), nil
	default:
		return "", fmt.Errorf("unsupported social filter field %q", field)
	}
}

// graphQLRequest is the POST body sent to Airstack.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one entry of a GraphQL errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the generic response envelope; Data may be null.
type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// SocialProfile is one Farcaster social profile with its connected wallets.
type SocialProfile struct {
	ConnectedAddresses []ConnectedAddress `json:"connectedAddresses"`
}

// ConnectedAddress is one wallet connected to a social profile.
type ConnectedAddress struct {
	Address *string `json:"address"`
}

type socialsData struct {
	Socials *struct {
		Social []SocialProfile `json:"Social"`
	} `json:"Socials"`
}

type followingsData struct {
	Farcaster *struct {
		Following []models.Following `json:"Following"`
	} `json:"Farcaster"`
}

type channelsData struct {
	FarcasterChannelParticipants *struct {
		FarcasterChannelParticipant []models.ChannelParticipant `json:"FarcasterChannelParticipant"`
	} `json:"FarcasterChannelParticipants"`
}
