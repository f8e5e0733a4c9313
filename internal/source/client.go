package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is the shared HTTP client for all selector-based fetchers. Every
// request carries the configured User-Agent and is bounded by the client
// timeout; transient failures (network errors, 5xx responses) are retried a
// bounded number of times before the fetch is reported as failed.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries uint64
	retryDelay time.Duration
}

// NewClient creates a Client with the given timeout, User-Agent and retry
// policy.
func NewClient(timeout time.Duration, userAgent string, maxRetries int, retryDelay time.Duration) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxRetries: uint64(maxRetries),
		retryDelay: retryDelay,
	}
}

// Get fetches a URL and returns the response body. Non-5xx HTTP errors are
// not retried; retrying a 404 will not make the page appear.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetching %s: status %d", url, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading %s: %w", url, err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}
