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

// Package interpret converts free-text queries into core.StructuredQuery values.
//
// Two strategies are provided. RuleBased uses multilingual keyword
// dictionaries and ordered regular expressions; it is pure and never fails.
// Enriched sends a five-step reasoning prompt to an ai.Reasoner, validates the
// JSON reply against a schema and maps it to a query with reasoning steps,
// intent and confidence.
//
// Chain combines them: the enriched strategy is tried when its reasoner is
// available, and any failure falls back to rules.
//
//	rules, _ := interpret.NewRuleBased(catalog.Default())
//	enriched, _ := interpret.NewEnriched(reasoner, catalog.Default())
//	chain, _ := interpret.NewChain(rules, enriched)
//	query, method := chain.Interpret(ctx, "Azure の今月の破壊的変更")
package interpret
