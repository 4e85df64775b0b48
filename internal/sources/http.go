// Farmix - Farcaster Identity Similarity Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/farmix

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/farmix/internal/logging"
	"github.com/tomtom215/farmix/internal/metrics"
)

// maxErrorBodySize limits the amount of response body read for error reporting.
const maxErrorBodySize = 64 * 1024 // 64KB

// Retry defaults for HTTP 429 responses.
const (
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	maxRetryDelay         = 10 * time.Second
)

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// StatusError is returned when an upstream answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// httpDoer performs rate-limited HTTP requests with 429 backoff for one provider.
type httpDoer struct {
	provider       string
	client         *http.Client
	limiter        *rate.Limiter
	log            zerolog.Logger
	maxRetries     int
	retryBaseDelay time.Duration
}

// newHTTPDoer creates a doer; a non-positive rate disables client-side limiting.
func newHTTPDoer(provider string, timeout time.Duration, ratePerSecond float64, burst int) *httpDoer {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	return &httpDoer{
		provider:       provider,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		log:            logging.WithComponent(provider),
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
	}
}

// do sends the request built by newReq, retrying on HTTP 429. newReq is called
// once per attempt so request bodies can be replayed. On success the caller
// owns the response body; any non-200 status is returned as *StatusError.
func (d *httpDoer) do(ctx context.Context, operation string, newReq func(context.Context) (*http.Request, error)) (resp *http.Response, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamRequest(d.provider, operation, time.Since(start), err)
	}()

	for attempt := 0; ; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s rate limiter: %w", d.provider, err)
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", d.provider, err)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", d.provider, err)
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		body := readBodyForError(resp.Body)
		_ = resp.Body.Close() //nolint:errcheck // body already consumed
		statusErr := &StatusError{Provider: d.provider, StatusCode: resp.StatusCode, Body: string(body)}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= d.maxRetries {
			return nil, statusErr
		}

		delay := d.backoff(attempt, resp.Header.Get("Retry-After"))
		d.log.Debug().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Rate limited upstream, retrying")
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// backoff returns the wait before retry attempt+1: Retry-After seconds when
// present, otherwise retryBaseDelay doubled per attempt, capped at maxRetryDelay.
func (d *httpDoer) backoff(attempt int, retryAfter string) time.Duration {
	delay := d.retryBaseDelay * time.Duration(1<<uint(attempt))
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
		delay = time.Duration(seconds) * time.Second
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
