// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxRequestBodySize bounds JSON request bodies.
const maxRequestBodySize = 16 * 1024

// FlexibleID is a Farcaster ID accepted as a JSON number or string.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(strings.TrimSpace(s))
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("fid must be a positive integer, got %s", data)
	}
	*id = FlexibleID(strconv.FormatUint(n, 10))
	return nil
}

// String returns the FID in decimal form.
func (id FlexibleID) String() string {
	return string(id)
}

// SimilarityRequest is the body of POST /calculateSimilarity and POST /api/v1/similarity.
type SimilarityRequest struct {
	FID               FlexibleID `json:"fid" validate:"required,fid"`
	SecondaryUsername string     `json:"secondaryUsername" validate:"required,fname"`
}

// normalize trims the username and lowercases it; fnames are lowercase.
func (req *SimilarityRequest) normalize() {
	req.SecondaryUsername = strings.ToLower(strings.TrimSpace(req.SecondaryUsername))
}

// ScoreRequest is the body of POST /getSimilarityScore.
type ScoreRequest struct {
	FID FlexibleID `json:"fid" validate:"required,fid"`
}

// ScorePath holds the path parameter of GET /api/v1/similarity/{fid}.
type ScorePath struct {
	FID string `json:"fid" validate:"required,fid"`
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
