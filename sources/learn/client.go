// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package learn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/retry"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public documentation search host.
	DefaultBaseURL = "https://learn.microsoft.com"

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	defaultBaseDelay  = time.Second
	defaultLocale     = "en-us"
	defaultRate       = 5
	defaultBurst      = 3
	maxBodyBytes      = 4 << 20
)

// Client searches the documentation search API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	locale     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return ErrHTTPClientRequired
		}
		c.httpClient = client
		return nil
	}
}

// WithTimeout bounds each request attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidTimeout, timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxRetries, n)
		}
		c.maxRetries = n
		return nil
	}
}

// WithBaseDelay sets the first backoff delay. Later delays double.
func WithBaseDelay(delay time.Duration) Option {
	return func(c *Client) error {
		c.baseDelay = delay
		return nil
	}
}

// WithLocale sets the content locale requested from the API.
func WithLocale(locale string) Option {
	return func(c *Client) error {
		c.locale = locale
		return nil
	}
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// NewClient creates a documentation search client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		locale:     defaultLocale,
		limiter:    rate.NewLimiter(defaultRate, defaultBurst),
		logger:     slog.Default().With("component", "learn-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		LastUpdated string `json:"last_updated"`
	} `json:"results"`
}

// Search queries the API for queryText, prefixed with productHint when set.
// Server and network failures are retried with exponential backoff; client
// errors are returned immediately.
func (c *Client) Search(ctx context.Context, queryText, productHint string, maxResults int) ([]core.DocHit, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	search := queryText
	if productHint != "" {
		search = productHint + " " + queryText
	}

	params := url.Values{}
	params.Set("search", search)
	params.Set("locale", c.locale)
	params.Set("$top", strconv.Itoa(maxResults))
	params.Set("facet", "products")
	endpoint := c.baseURL + "/api/search?" + params.Encode()

	var hits []core.DocHit
	start := time.Now()
	err := retry.RetryWithBackoff(ctx, func() error {
		var err error
		hits, err = c.fetch(ctx, endpoint)
		return err
	}, c.maxRetries+1, c.baseDelay)
	if err != nil {
		c.logger.Warn("documentation search failed", "search", search, "duration", time.Since(start), "err", err)
		return nil, err
	}

	c.logger.Debug("documentation search completed", "search", search, "hits", len(hits), "duration", time.Since(start))
	return hits, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]core.DocHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, retry.Permanent(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		statusErr := &StatusError{Code: resp.StatusCode}
		if resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, retry.Permanent(statusErr)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	hits := make([]core.DocHit, 0, len(body.Results))
	for _, r := range body.Results {
		hits = append(hits, core.DocHit{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			LastUpdated: r.LastUpdated,
		})
	}
	return hits, nil
}

// IsClientError reports whether err is a 4xx response from the API.
func IsClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500
}
