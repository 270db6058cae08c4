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

package core

import (
	"fmt"
	"strings"
)

// ValidateUpdateRecord validates an UpdateRecord according to domain rules.
//
// Validation rules:
//   - ID, Title and Product must not be empty
//   - Severity must be breaking, new-feature or improvement
//   - Source must be a known source identifier
//   - Date, when present, must parse as an ISO date
//
// NOT validated:
//   - Summary, Impact and ActionRequired (free text, may be empty)
//   - ProductFamily (filled from the catalog when missing)
func ValidateUpdateRecord(record *UpdateRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidUpdateRecord)
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUpdateRecord, ErrEmptyID)
	}
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUpdateRecord, ErrEmptyTitle)
	}
	if strings.TrimSpace(record.Product) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUpdateRecord, ErrEmptyProduct)
	}
	if !record.Severity.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidUpdateRecord, ErrInvalidSeverity, record.Severity)
	}
	if !record.Source.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidUpdateRecord, ErrInvalidSource, record.Source)
	}
	if record.Date != "" {
		if _, ok := record.ParsedDate(); !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidUpdateRecord, ErrInvalidDate, record.Date)
		}
	}
	return nil
}

// ValidateProduct validates a catalog Product.
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}
	if strings.TrimSpace(product.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidProduct)
	}
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProduct)
	}
	for _, src := range product.Sources {
		if !src.Valid() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidProduct, ErrInvalidSource, src)
		}
	}
	return nil
}

// ParseSeverity converts a loosely formatted severity string.
// Empty strings and the literal "null" yield SeverityNone.
func ParseSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "null" || s == "none" {
		return SeverityNone, nil
	}
	sev := Severity(s)
	if !sev.Valid() {
		return SeverityNone, fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
	}
	return sev, nil
}

// ParsePeriod converts a loosely formatted period string.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "null" || s == "none" {
		return PeriodNone, nil
	}
	p := Period(s)
	if !p.Valid() {
		return PeriodNone, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// ParseSource converts a loosely formatted source string.
func ParseSource(s string) (SourceID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "null" || s == "none" {
		return SourceNone, nil
	}
	src := SourceID(s)
	if !src.Valid() {
		return SourceNone, fmt.Errorf("%w: %q", ErrInvalidSource, s)
	}
	return src, nil
}
