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

import "errors"

var (
	// ErrUnavailable is returned once the backend has failed its connection probe.
	ErrUnavailable = errors.New("tenant backend unavailable")

	// ErrAskerRequired is returned when a Searcher is built without an Asker.
	ErrAskerRequired = errors.New("asker is required")

	// ErrBaseURLRequired is returned when an HTTPAsker has no base URL.
	ErrBaseURLRequired = errors.New("base URL is required")

	// ErrHTTPClientRequired is returned when a nil HTTP client is supplied.
	ErrHTTPClientRequired = errors.New("http client is required")

	// ErrInvalidTimeout is returned for a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrMalformedAnswer is returned when a JSON answer cannot be decoded.
	ErrMalformedAnswer = errors.New("malformed tenant answer")
)
