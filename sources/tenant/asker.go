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

package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultAskTimeout = 15 * time.Second
	maxAnswerBytes    = 1 << 20
)

// Asker sends a natural-language question to the tenant data backend.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// HTTPAsker talks to a tenant data gateway over HTTP.
//
// The backend is probed once, on first use. If the probe fails the asker stays
// unavailable for the rest of its lifetime and every Ask returns
// ErrUnavailable without touching the network. Reset clears that state.
type HTTPAsker struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	connected bool
	failed    bool
}

var _ Asker = (*HTTPAsker)(nil)

// AskerOption configures an HTTPAsker.
type AskerOption func(*HTTPAsker) error

// WithToken sets a bearer token sent with every request.
func WithToken(token string) AskerOption {
	return func(a *HTTPAsker) error {
		a.token = token
		return nil
	}
}

// WithAskerHTTPClient sets the HTTP client used for requests.
func WithAskerHTTPClient(client *http.Client) AskerOption {
	return func(a *HTTPAsker) error {
		if client == nil {
			return ErrHTTPClientRequired
		}
		a.httpClient = client
		return nil
	}
}

// WithAskTimeout bounds the probe and each question.
func WithAskTimeout(timeout time.Duration) AskerOption {
	return func(a *HTTPAsker) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidTimeout, timeout)
		}
		a.timeout = timeout
		return nil
	}
}

// NewHTTPAsker creates an asker for the gateway at baseURL.
func NewHTTPAsker(baseURL string, opts ...AskerOption) (*HTTPAsker, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	a := &HTTPAsker{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultAskTimeout,
		logger:     slog.Default().With("component", "tenant-asker"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// connect probes the backend once and remembers a failure. A probe cut
// short by the caller's context is not a failure of the backend.
func (a *HTTPAsker) connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failed {
		return ErrUnavailable
	}
	if a.connected {
		return nil
	}

	if err := a.probe(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.failed = true
		a.logger.Warn("tenant backend connection failed, skipping it from now on", "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	a.connected = true
	a.logger.Info("tenant backend connected", "url", a.baseURL)
	return nil
}

func (a *HTTPAsker) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	a.authorize(req)
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAnswerBytes))
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (a *HTTPAsker) authorize(req *http.Request) {
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
}

// Reset forgets the connection state so the next Ask probes again.
func (a *HTTPAsker) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = false
	a.failed = false
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Ask posts question and returns the answer as markdown-like text.
// JSON answers contribute their text parts, HTML answers are flattened,
// anything else is returned as-is.
func (a *HTTPAsker) Ask(ctx context.Context, question string) (string, error) {
	if err := a.connect(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/html;q=0.9, text/plain;q=0.8")
	a.authorize(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAnswerBytes))
		return "", fmt.Errorf("tenant backend returned status %d", resp.StatusCode)
	}

	reader := io.LimitReader(resp.Body, maxAnswerBytes)
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var answer askResponse
		if err := json.NewDecoder(reader).Decode(&answer); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedAnswer, err)
		}
		var parts []string
		for _, c := range answer.Content {
			if c.Type == "text" && c.Text != "" {
				parts = append(parts, c.Text)
			}
		}
		return strings.Join(parts, "\n"), nil
	case "text/html":
		return htmlToMarkdown(reader)
	default:
		raw, err := io.ReadAll(reader)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
