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

// Package openai implements ai.Reasoner on top of OpenAI-compatible chat APIs.
//
// The langchaingo client is created lazily on the first Complete call. If
// client setup fails, the failure is cached and returned to every later call
// so a dead backend is not retried for the rest of the process lifetime.
// Each call is bounded by Config.Timeout.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithModel("gpt-4o"),
//	)
//
//	reasoner, err := openai.NewReasoner(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reasoner.Close()
//
//	if reasoner.Available() {
//	    text, err := reasoner.Complete(ctx, ai.Request{System: sys, User: q, JSON: true})
//	}
package openai
