// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/models"
)

// SocialGraph is the social-graph provider used for identity resolution,
// followings and channel memberships.
type SocialGraph interface {
	Ping(ctx context.Context) error
	GetSocialAddresses(ctx context.Context, field, value string) ([]SocialProfile, error)
	GetFollowings(ctx context.Context, addr models.Address) ([]models.Following, error)
	GetChannelMemberships(ctx context.Context, addr models.Address) ([]models.ChannelParticipant, error)
}

// AirstackClient talks to the Airstack GraphQL API.
type AirstackClient struct {
	url        string
	apiKey     string
	dappName   string
	blockchain string
	http       *httpDoer
}

// NewAirstackClient creates a client from the airstack config section.
func NewAirstackClient(cfg *config.AirstackConfig) *AirstackClient {
	return &AirstackClient{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		dappName:   cfg.DappName,
		blockchain: cfg.Blockchain,
		http:       newHTTPDoer("airstack", cfg.Timeout, cfg.RateLimit, cfg.RateBurst),
	}
}

// query posts one GraphQL request and decodes its data envelope into out.
// A null data envelope leaves out untouched.
func query[T any](ctx context.Context, c *AirstackClient, operation, q string, vars map[string]any, out *T) error {
	payload, err := json.Marshal(graphQLRequest{Query: q, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode airstack query: %w", err)
	}

	resp, err := c.http.do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.apiKey)
		return req, nil
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.http.log.Warn().Err(closeErr).Str("operation", operation).Msg("Failed to close response body")
		}
	}()

	var envelope graphQLResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode airstack %s response: %w", operation, err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("airstack %s returned errors: %s", operation, strings.Join(msgs, "; "))
	}

	if envelope.Data != nil {
		*out = *envelope.Data
	}
	return nil
}

// Ping verifies the endpoint answers an authenticated query.
func (c *AirstackClient) Ping(ctx context.Context) error {
	var out struct{}
	return query(ctx, c, "ping", pingQuery, nil, &out)
}

// GetSocialAddresses returns the Farcaster profiles whose field (userId or
// profileName) equals value, with their connected addresses.
func (c *AirstackClient) GetSocialAddresses(ctx context.Context, field, value string) ([]SocialProfile, error) {
	q, err := socialsQuery(field)
	if err != nil {
		return nil, err
	}

	var data socialsData
	vars := map[string]any{
		"value":      value,
		"dappName":   c.dappName,
		"blockchain": c.blockchain,
	}
	if err := query(ctx, c, "socials", q, vars, &data); err != nil {
		return nil, err
	}
	if data.Socials == nil {
		return nil, nil
	}
	return data.Socials.Social, nil
}

// GetFollowings returns the Farcaster followings of addr.
func (c *AirstackClient) GetFollowings(ctx context.Context, addr models.Address) ([]models.Following, error) {
	var data followingsData
	vars := map[string]any{
		"identity": addr.String(),
		"dappName": c.dappName,
	}
	if err := query(ctx, c, "followings", followingsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Farcaster == nil {
		return nil, nil
	}
	return data.Farcaster.Following, nil
}

// GetChannelMemberships returns the Farcaster channels addr follows.
func (c *AirstackClient) GetChannelMemberships(ctx context.Context, addr models.Address) ([]models.ChannelParticipant, error) {
	var data channelsData
	vars := map[string]any{"identity": addr.String()}
	if err := query(ctx, c, "channels", channelsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.FarcasterChannelParticipants == nil {
		return nil, nil
	}
	return data.FarcasterChannelParticipants.FarcasterChannelParticipant, nil
}
