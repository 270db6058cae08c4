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

package api

import (
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/briefing/core"
)

const maxQueryRunes = 500

// DefaultLocale is used when a request names no locale.
const DefaultLocale = "ja"

// SupportedLocales lists the accepted locale values.
var SupportedLocales = []string{"ja", "en", "ko", "zh", "es", "fr", "de", "pt"}

// FieldError describes one invalid request parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid parameter of a request.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Details = append(e.Details, FieldError{Field: field, Message: message})
}

// SearchParams are the validated parameters of a search request.
type SearchParams struct {
	Query  string
	Locale string
	Period core.Period
	Live   bool
}

// ParseSearchParams validates search query parameters. The query is trimmed
// and must hold 1 to 500 characters. Locale defaults to ja and live to true.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	verr := &ValidationError{}
	params := SearchParams{
		Query:  strings.TrimSpace(values.Get("q")),
		Locale: strings.TrimSpace(values.Get("locale")),
		Live:   true,
	}

	switch n := utf8.RuneCountInString(params.Query); {
	case n == 0:
		verr.add("q", "Query must not be empty")
	case n > maxQueryRunes:
		verr.add("q", "Query must be 500 characters or less")
	}

	if params.Locale == "" {
		params.Locale = DefaultLocale
	} else if !slices.Contains(SupportedLocales, params.Locale) {
		verr.add("locale", "Locale must be one of "+strings.Join(SupportedLocales, ", "))
	}

	if raw := strings.TrimSpace(values.Get("period")); raw != "" {
		period := core.Period(raw)
		if period.Valid() {
			params.Period = period
		} else {
			verr.add("period", "Period must be one of 1w, 1m, 3m, 6m")
		}
	}

	switch strings.TrimSpace(values.Get("live")) {
	case "", "true":
	case "false":
		params.Live = false
	default:
		verr.add("live", "Live must be true or false")
	}

	if len(verr.Details) > 0 {
		return SearchParams{}, verr
	}
	return params, nil
}
