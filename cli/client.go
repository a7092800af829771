package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"
)

type searchResult struct {
	Body      []byte
	Remaining string
	ClientID  string
}

// rateLimitedError is the server-side denial, translated for display.
type rateLimitedError struct {
	RetryAfter int
	Message    string
}

func (e *rateLimitedError) Error() string {
	return e.Message
}

// searchServer calls the scout server. The quota cookie replica rides
// along like it would from a browser.
func (a *app) searchServer(ctx context.Context, lat, lng, radius float64) (*searchResult, error) {
	client := &http.Client{Timeout: time.Duration(a.cfg.Server.RequestTimeout) * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.Server.URL+"/v1/recommendations", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", fmt.Sprintf("scout/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH))
	if cookie, err := a.cookies.Cookie(a.cfg.Quota.StorageKey); err == nil {
		req.AddCookie(cookie)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		var body struct {
			Message    string `json:"message"`
			RetryAfter int    `json:"retryAfter"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Message == "" {
			body.Message = "daily search limit reached"
		}
		return nil, &rateLimitedError{RetryAfter: body.RetryAfter, Message: body.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &searchResult{
		Body:      body,
		Remaining: resp.Header.Get("X-RateLimit-Remaining"),
		ClientID:  resp.Header.Get("X-Client-ID"),
	}, nil
}
