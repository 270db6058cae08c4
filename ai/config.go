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

package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the reasoning service.
type Config struct {
	// Host is the base URL for an OpenAI-compatible chat API.
	// Empty means the public OpenAI endpoint.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	Host string

	// Model is the chat model identifier.
	// Example: "gpt-4o", "qwen2.5:7b"
	Model string

	// Token is the API credential. The reasoner is unavailable without one.
	// Local servers that ignore authentication accept any non-empty value.
	Token string

	// Enabled switches enriched reasoning on or off regardless of credentials.
	// Default: true
	Enabled bool

	// Timeout bounds a single completion call.
	// Default: 15s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the API credential.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithEnabled turns enriched reasoning on or off.
func WithEnabled(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Enabled = enabled
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config targeting the public OpenAI API with gpt-4o.
// It has no token, so the reasoner is unavailable until one is supplied.
func DefaultConfig() *Config {
	return &Config{
		Model:   "gpt-4o",
		Enabled: true,
		Timeout: 15 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithToken(os.Getenv("OPENAI_API_KEY")),
//	    WithModel("gpt-4o-mini"),
//	)
//
// Example with a local server:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithModel("qwen2.5:7b"),
//	    WithToken("none"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Available reports whether reasoning is enabled and a credential is present.
func (c *Config) Available() bool {
	return c != nil && c.Enabled && strings.TrimSpace(c.Token) != ""
}

// Normalize ensures the configuration is in a canonical form.
// A non-empty Host gets the /v1 suffix required by OpenAI-compatible APIs.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Timeout > 2*time.Minute {
		return errors.New("ai config: Timeout must not exceed 2m")
	}
	return nil
}
