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

// Package ai provides the reasoning-service abstraction used by briefing.
//
// The pipeline uses an external chat model for three optional tasks:
// enriched query interpretation, query rewriting during self-reflection and
// executive summaries. None of them is required. Every caller checks
// Reasoner.Available and falls back to deterministic behaviour when the
// service is disabled, missing credentials or failing.
//
// # Implementation Packages
//
//   - ai/openai: langchaingo client for OpenAI-compatible chat APIs
//   - ai/mock: test double with injectable behaviour and call counts
//
// # Constructor Return Type Pattern
//
// openai.NewReasoner returns the ai.Reasoner interface. mock.NewMockReasoner
// returns the concrete *mock.MockReasoner so tests can inject CompleteFunc
// and inspect CallCount.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithToken(os.Getenv("OPENAI_API_KEY")))
//	reasoner, err := openai.NewReasoner(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reasoner.Close()
//
//	text, err := reasoner.Complete(ctx, ai.Request{
//	    System: "You are a query optimizer.",
//	    User:   "Azure breaking changes",
//	})
package ai
