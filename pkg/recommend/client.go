// Package recommend talks to the third-party recommendation webhook and
// extracts structured places from its free-text replies.
package recommend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Options tunes the webhook client. Zero values fall back to defaults
// suitable for an interactive request path.
type Options struct {
	Timeout           time.Duration
	RetryInitial      time.Duration
	RetryMax          time.Duration
	MaxRetries        int
	RequestsPerSecond float64 // 0 disables outbound pacing
	Logger            zerolog.Logger
}

// Client performs the recommendation fetch. Every upstream hit is
// externally billed, so calls are paced and retried conservatively.
type Client struct {
	baseURL string
	http    *http.Client
	retry   *retrier
	pacer   *rate.Limiter
	logger  zerolog.Logger
}

// Result is the webhook's payload, forwarded opaquely to callers.
type Result struct {
	Body        []byte
	ContentType string
}

func NewClient(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = 500 * time.Millisecond
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 5 * time.Second
	}
	var pacer *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		pacer = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		retry:   newRetrier(opts.RetryInitial, opts.RetryMax, opts.MaxRetries, opts.Logger),
		pacer:   pacer,
		logger:  opts.Logger,
	}
}

// Fetch requests recommendations around a coordinate. Transient upstream
// failures (5xx, network errors) are retried with backoff; the response
// body is treated as opaque.
func (c *Client) Fetch(ctx context.Context, lat, lng, radiusKm float64) (*Result, error) {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var out *Result
	err := c.retry.do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return err
		}
		q := req.URL.Query()
		q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
		q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
		req.URL.RawQuery = q.Encode()

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if isRetryableStatus(resp.StatusCode) {
				return retryableStatusError{status: resp.StatusCode}
			}
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		out = &Result{Body: body, ContentType: resp.Header.Get("Content-Type")}
		return nil
	}, isRetryableHTTP)
	if err != nil {
		return nil, err
	}
	return out, nil
}
