// Package httpclient is the rate-limited, retrying HTTP client shared by the
// market-data fetchers and the notifiers.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client wraps http.Client with a token-bucket limiter and exponential backoff.
type Client struct {
	HTTPClient   *http.Client
	Limiter      *rate.Limiter
	MaxRetryTime time.Duration
	logger       zerolog.Logger
}

// Options holds options for creating a new Client.
type Options struct {
	Timeout        time.Duration
	RequestsPerSec int
	MaxRetryTime   time.Duration
	ProxyURL       string
}

// New creates a Client, filling unset options with defaults.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryTime == 0 {
		opts.MaxRetryTime = 30 * time.Second
	}

	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		Limiter:      rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		MaxRetryTime: opts.MaxRetryTime,
		logger:       log.With().Str("component", "httpclient").Logger(),
	}
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Get performs a GET and returns the body of a 200 response. Network errors,
// 429 and 5xx responses are retried with exponential backoff; other statuses
// fail immediately.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, rawURL, header, nil)
}

// PostJSON posts payload encoded as JSON, retrying like Get.
func (c *Client) PostJSON(ctx context.Context, rawURL string, header http.Header, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")
	return c.Do(ctx, http.MethodPost, rawURL, h, body)
}

// Do sends one request, rate limited and retried, and returns the body of a
// 200 response.
func (c *Client) Do(ctx context.Context, method, rawURL string, header http.Header, reqBody []byte) ([]byte, error) {
	var body []byte
	operation := func() error {
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		var r io.Reader
		if reqBody != nil {
			r = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, r)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			se := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 256)}
			if se.Retryable() {
				return se
			}
			return backoff.Permanent(se)
		}
		body = data
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.MaxRetryTime
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Str("method", method).Dur("retry_in", wait).Msg("request failed, retrying")
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
