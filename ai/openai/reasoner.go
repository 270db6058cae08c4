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

package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/briefing/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrUnavailable is returned by Complete when reasoning is disabled or has no credentials.
	ErrUnavailable = errors.New("reasoner unavailable")

	// ErrEmptyResponse is returned when the model produces no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Reasoner implements ai.Reasoner using OpenAI-compatible chat APIs.
// The underlying client is created on first use; a creation failure is
// remembered and returned to every later caller without retrying.
type Reasoner struct {
	config *ai.Config
	logger *slog.Logger

	once    sync.Once
	client  llms.Model
	initErr error
}

var _ ai.Reasoner = (*Reasoner)(nil)

// newReasoner is an internal constructor that returns the concrete type.
func newReasoner(config *ai.Config) (*Reasoner, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Reasoner{
		config: config,
		logger: slog.Default().With("component", "openai-reasoner"),
	}, nil
}

// NewReasoner creates a reasoner from the provided configuration.
// A reasoner without credentials is valid but reports Available() == false.
//
// Returns ai.Reasoner interface to enforce abstraction.
func NewReasoner(config *ai.Config) (ai.Reasoner, error) {
	return newReasoner(config)
}

// Available reports whether the configuration enables reasoning.
func (r *Reasoner) Available() bool {
	return r.config.Available()
}

func (r *Reasoner) getClient() (llms.Model, error) {
	r.once.Do(func() {
		opts := []openai.Option{
			openai.WithToken(r.config.Token),
			openai.WithModel(r.config.Model),
		}
		if r.config.Host != "" {
			opts = append(opts, openai.WithBaseURL(r.config.Host))
		}
		client, err := openai.New(opts...)
		if err != nil {
			r.logger.Warn("chat client setup failed, reasoning disabled for this process", "err", err)
			r.initErr = err
			return
		}
		r.client = client
	})
	return r.client, r.initErr
}

// Complete sends the prompts to the chat model with a bounded wait.
func (r *Reasoner) Complete(ctx context.Context, req ai.Request) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}
	client, err := r.getClient()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}
	callOpts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSON {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	response, err := client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		r.logger.Warn("completion failed", "model", r.config.Model, "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if req.JSON {
		text = cleanJSON(text)
	}
	if text == "" {
		return "", ErrEmptyResponse
	}

	r.logger.Debug("completion succeeded", "model", r.config.Model, "length", len(text))
	return text, nil
}

// Close releases resources held by the reasoner.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (r *Reasoner) Close() error {
	r.logger.Debug("closing reasoner")
	return nil
}
