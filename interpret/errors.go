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

package interpret

import "errors"

var (
	// ErrRulesRequired is returned when a chain is built without a rule-based strategy.
	ErrRulesRequired = errors.New("rule-based interpreter is required")

	// ErrReasonerRequired is returned when an enriched interpreter has no reasoner.
	ErrReasonerRequired = errors.New("reasoner is required")

	// ErrCatalogRequired is returned when a nil catalog is supplied.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrInvalidAnalysis is returned when the model's analysis fails schema validation.
	ErrInvalidAnalysis = errors.New("invalid query analysis")
)
