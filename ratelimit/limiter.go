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

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxRequests is the number of requests a client may make per window.
	DefaultMaxRequests = 30

	// DefaultWindow is the length of the sliding window.
	DefaultWindow = 60 * time.Second

	defaultCleanupInterval = 2 * time.Minute
	minRetryAfter          = time.Millisecond
)

var (
	// ErrInvalidMaxRequests is returned for a request limit below 1.
	ErrInvalidMaxRequests = errors.New("max requests must be at least 1")

	// ErrInvalidWindow is returned for a non-positive window.
	ErrInvalidWindow = errors.New("window must be positive")

	// ErrClientRequired is returned when a Redis limiter has no client.
	ErrClientRequired = errors.New("redis client is required")
)

// Decision is the verdict for one request.
type Decision struct {
	Allowed bool

	// Remaining is how many more requests fit in the current window.
	Remaining int

	// RetryAfter is set when the request is rejected: the time until the
	// oldest request in the window expires. It is always at least 1ms.
	RetryAfter time.Duration
}

// Limiter is a sliding-window request limiter keyed by client id.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (Decision, error)
	Close() error
}

type settings struct {
	maxRequests     int
	window          time.Duration
	cleanupInterval time.Duration
	keyPrefix       string
	now             func() time.Time
}

func defaultSettings() settings {
	return settings{
		maxRequests:     DefaultMaxRequests,
		window:          DefaultWindow,
		cleanupInterval: defaultCleanupInterval,
		keyPrefix:       "briefing:ratelimit:",
		now:             time.Now,
	}
}

// Option configures a limiter.
type Option func(*settings) error

// WithMaxRequests sets the per-window request limit.
func WithMaxRequests(n int) Option {
	return func(s *settings) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxRequests, n)
		}
		s.maxRequests = n
		return nil
	}
}

// WithWindow sets the sliding window length.
func WithWindow(window time.Duration) Option {
	return func(s *settings) error {
		if window <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidWindow, window)
		}
		s.window = window
		return nil
	}
}

// WithCleanupInterval sets how often the in-memory limiter drops idle clients.
func WithCleanupInterval(interval time.Duration) Option {
	return func(s *settings) error {
		if interval > 0 {
			s.cleanupInterval = interval
		}
		return nil
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) error {
		s.keyPrefix = prefix
		return nil
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) error {
		s.now = now
		return nil
	}
}

func applyOptions(opts []Option) (settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// retryAfter is the time until oldest leaves the window, at least 1ms.
func retryAfter(window time.Duration, now, oldest time.Time) time.Duration {
	return max(window-now.Sub(oldest), minRetryAfter)
}
