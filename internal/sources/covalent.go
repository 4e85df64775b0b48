// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/farmix/internal/config"
	"github.com/tomtom215/farmix/internal/models"
)

// ChainData is the chain-data provider used for NFT and token holdings.
type ChainData interface {
	GetNFTs(ctx context.Context, addr models.Address) ([]models.NFTAsset, error)
	GetTokenBalances(ctx context.Context, addr models.Address) ([]models.TokenBalance, error)
}

// CovalentClient talks to the Covalent REST API for a single chain.
type CovalentClient struct {
	baseURL      string
	apiKey       string
	chain        string
	withUncached bool
	http         *httpDoer
}

// NewCovalentClient creates a client from the covalent config section.
func NewCovalentClient(cfg *config.CovalentConfig) *CovalentClient {
	return &CovalentClient{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		apiKey:       cfg.APIKey,
		chain:        cfg.Chain,
		withUncached: cfg.WithUncached,
		http:         newHTTPDoer("covalent", cfg.Timeout, cfg.RateLimit, cfg.RateBurst),
	}
}

// covalentResponse is the common Covalent envelope. Only the first page of
// items is read.
type covalentResponse[T any] struct {
	Data *struct {
		Items []T `json:"items"`
	} `json:"data"`
	Error        bool    `json:"error"`
	ErrorMessage *string `json:"error_message"`
	ErrorCode    *int    `json:"error_code"`
}

// buildURL returns {base}/v1/{chain}/address/{addr}/{endpoint}/?{params}.
func (c *CovalentClient) buildURL(addr models.Address, endpoint string, params url.Values) string {
	u := fmt.Sprintf("%s/v1/%s/address/%s/%s/",
		c.baseURL, url.PathEscape(c.chain), url.PathEscape(addr.String()), endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// get fetches one Covalent endpoint and returns its first page of items.
func get[T any](ctx context.Context, c *CovalentClient, operation, endpoint string, addr models.Address, params url.Values) ([]T, error) {
	target := c.buildURL(addr, endpoint, params)

	resp, err := c.http.do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.http.log.Warn().Err(closeErr).Str("operation", operation).Msg("Failed to close response body")
		}
	}()

	var envelope covalentResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode covalent %s response: %w", operation, err)
	}

	if envelope.Error {
		msg := "unknown error"
		if envelope.ErrorMessage != nil && *envelope.ErrorMessage != "" {
			msg = *envelope.ErrorMessage
		}
		return nil, fmt.Errorf("covalent %s returned error: %s", operation, msg)
	}

	if envelope.Data == nil {
		return nil, nil
	}
	return envelope.Data.Items, nil
}

// GetNFTs returns the NFT holdings of addr.
func (c *CovalentClient) GetNFTs(ctx context.Context, addr models.Address) ([]models.NFTAsset, error) {
	params := url.Values{}
	if c.withUncached {
		params.Set("with-uncached", "true")
	}
	return get[models.NFTAsset](ctx, c, "nfts", "balances_nft", addr, params)
}

// GetTokenBalances returns the fungible token balances of addr.
func (c *CovalentClient) GetTokenBalances(ctx context.Context, addr models.Address) ([]models.TokenBalance, error) {
	return get[models.TokenBalance](ctx, c, "tokens", "balances_v2", addr, nil)
}
