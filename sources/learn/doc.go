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

// Package learn is the documentation search adapter.
//
// Client calls the public search API with a per-attempt timeout, throttles
// outbound requests with a token bucket and retries server and network
// failures with exponential backoff (two retries, 1s then 2s, by default).
// Client errors and malformed bodies are returned without retrying.
package learn
