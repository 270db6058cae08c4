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

import "errors"

// Domain validation errors
var (
	// ErrInvalidUpdateRecord indicates an UpdateRecord failed validation.
	ErrInvalidUpdateRecord = errors.New("invalid update record")

	// ErrEmptyID indicates the record ID is empty.
	ErrEmptyID = errors.New("record id cannot be empty")

	// ErrEmptyTitle indicates the record Title is empty.
	ErrEmptyTitle = errors.New("record title cannot be empty")

	// ErrEmptyProduct indicates the record Product is empty.
	ErrEmptyProduct = errors.New("record product cannot be empty")

	// ErrInvalidSeverity indicates an unknown Severity value.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidSource indicates an unknown SourceID value.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidPeriod indicates an unknown Period value.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidDate indicates a Date that is not an ISO date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidProduct indicates a Product catalog entry failed validation.
	ErrInvalidProduct = errors.New("invalid product")
)
