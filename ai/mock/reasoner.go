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

package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/briefing/ai"
)

// ErrUnavailable is returned by Complete when the mock is marked unavailable.
var ErrUnavailable = errors.New("mock reasoner unavailable")

// MockReasoner is a test double for ai.Reasoner.
// It records requests and lets tests inject replies.
type MockReasoner struct {
	// CompleteFunc overrides the default echo behaviour.
	CompleteFunc func(ctx context.Context, req ai.Request) (string, error)

	mu        sync.Mutex
	available bool
	requests  []ai.Request
	closed    bool
}

var _ ai.Reasoner = (*MockReasoner)(nil)

// NewMockReasoner creates an available mock that echoes the user prompt.
// Note: Returns concrete type to allow test assertions.
func NewMockReasoner() *MockReasoner {
	return &MockReasoner{available: true}
}

// WithCompleteFunc sets custom completion behaviour.
func (m *MockReasoner) WithCompleteFunc(fn func(ctx context.Context, req ai.Request) (string, error)) *MockReasoner {
	m.CompleteFunc = fn
	return m
}

// WithResponse makes every call return text.
func (m *MockReasoner) WithResponse(text string) *MockReasoner {
	m.CompleteFunc = func(context.Context, ai.Request) (string, error) {
		return text, nil
	}
	return m
}

// WithError makes every call fail with err.
func (m *MockReasoner) WithError(err error) *MockReasoner {
	m.CompleteFunc = func(context.Context, ai.Request) (string, error) {
		return "", err
	}
	return m
}

// WithAvailable sets what Available reports.
func (m *MockReasoner) WithAvailable(available bool) *MockReasoner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// Complete records the request and returns the injected reply.
func (m *MockReasoner) Complete(ctx context.Context, req ai.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	available := m.available
	fn := m.CompleteFunc
	m.mu.Unlock()

	if !available {
		return "", ErrUnavailable
	}
	if fn != nil {
		return fn(ctx, req)
	}
	return req.User, nil
}

// Available reports the configured availability.
func (m *MockReasoner) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Close marks the mock closed.
func (m *MockReasoner) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// CallCount returns the number of times Complete was called.
func (m *MockReasoner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockReasoner) Requests() []ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ai.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Closed reports whether Close was called.
func (m *MockReasoner) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Reset clears recorded calls and custom functions.
func (m *MockReasoner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.CompleteFunc = nil
	m.available = true
	m.closed = false
}
