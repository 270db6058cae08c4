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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/poiesic/briefing/catalog"
	"github.com/poiesic/briefing/core"
	"github.com/poiesic/briefing/pipeline"
	"github.com/poiesic/briefing/ratelimit"
)

// Searcher runs one search request.
type Searcher interface {
	Search(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// RejectionCounter is notified of every rate-limited request.
type RejectionCounter interface {
	RateLimited()
}

// Handler serves the HTTP API.
type Handler struct {
	searcher Searcher
	catalog  *catalog.Catalog
	limiter  ratelimit.Limiter
	counter  RejectionCounter
	metrics  http.Handler
	now      func() time.Time
	logger   *slog.Logger
	mux      *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithRateLimiter limits /api/search per client.
func WithRateLimiter(limiter ratelimit.Limiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

// WithRejectionCounter counts rate-limited requests.
func WithRejectionCounter(counter RejectionCounter) Option {
	return func(h *Handler) {
		h.counter = counter
	}
}

// WithMetricsHandler serves metrics at /metrics.
func WithMetricsHandler(metrics http.Handler) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

// WithClock sets the time source for generatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// NewHandler creates the API handler.
func NewHandler(searcher Searcher, cat *catalog.Catalog, opts ...Option) (*Handler, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	h := &Handler{
		searcher: searcher,
		catalog:  cat,
		now:      time.Now,
		logger:   slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux = http.NewServeMux()
	h.mux.HandleFunc("GET /api/search", h.handleSearch)
	h.mux.HandleFunc("GET /api/products", h.handleProducts)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics)
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type errorBody struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`

	RetryAfterMs int64 `json:"retryAfterMs,omitempty"`
}

type searchResponse struct {
	*pipeline.Result
	Locale      string `json:"locale"`
	GeneratedAt string `json:"generatedAt"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.limiter != nil {
		clientID := ClientID(r)
		decision, err := h.limiter.Allow(r.Context(), clientID)
		switch {
		case err != nil:
			h.logger.Warn("rate limiter failed, allowing request", "client", clientID, "err", err)
		case !decision.Allowed:
			h.rejected(w, clientID, decision)
			return
		default:
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
	}

	params, err := ParseSearchParams(r.URL.Query())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.logger.Warn("validation failed", "details", verr.Details)
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Validation failed", Details: verr.Details})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Validation failed", Message: err.Error()})
		return
	}

	h.logger.Info("search request received", "query", params.Query, "locale", params.Locale)
	result, err := h.searcher.Search(r.Context(), pipeline.Request{
		Query:           params.Query,
		Locale:          params.Locale,
		IncludeExternal: params.Live,
		Period:          params.Period,
	})
	if err != nil {
		h.logger.Error("search failed", "err", err, "duration", time.Since(start))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Search failed", Message: "Internal server error"})
		return
	}

	h.logger.Info("search completed", "results", result.Stats.Total, "duration", time.Since(start))
	writeJSON(w, http.StatusOK, searchResponse{
		Result:      result,
		Locale:      params.Locale,
		GeneratedAt: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) rejected(w http.ResponseWriter, clientID string, decision ratelimit.Decision) {
	if h.counter != nil {
		h.counter.RateLimited()
	}
	seconds := int64(math.Ceil(decision.RetryAfter.Seconds()))
	h.logger.Warn("rate limit exceeded", "client", clientID, "retry_after", decision.RetryAfter)
	w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:        "Too many requests",
		Message:      "Rate limit exceeded. Please retry later.",
		RetryAfterMs: decision.RetryAfter.Milliseconds(),
	})
}

type productsResponse struct {
	Products []core.Product `json:"products"`
	Families []string       `json:"families"`
}

func (h *Handler) handleProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.Products()
	families := []string{}
	for _, p := range products {
		if !slices.Contains(families, p.Family) {
			families = append(families, p.Family)
		}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products, Families: families})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Warn("response encoding failed", "err", err)
	}
}
