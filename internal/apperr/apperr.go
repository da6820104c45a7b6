// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apperr defines the small, closed set of error kinds the
// ingestion-and-risk core distinguishes between. Callers test for a kind
// with errors.Is against the sentinel, not by inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller-side input errors (bad year, unknown
	// report code, blank corp code). Surfaced at an API boundary as 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a requested profile, partner, or corp code that is
	// unknown. Surfaced at an API boundary as 404.
	ErrNotFound = errors.New("not found")

	// ErrExternalSource marks a non-2xx response or transport failure talking
	// to DART. Logged; swallowed per sub-step inside the ingestion
	// coordinator, propagated in direct API paths.
	ErrExternalSource = errors.New("external source error")

	// ErrTransientParsing marks an unparseable amount or payload. The
	// affected row or field is treated as absent; never fails a whole
	// assessment.
	ErrTransientParsing = errors.New("transient parsing error")

	// ErrInvariant marks a violated internal precondition (e.g. both owner
	// ids set on a profile). Fatal in testing; logged and the operation
	// aborts in production.
	ErrInvariant = errors.New("invariant violated")
)

// Invalid wraps msg as an ErrInvalidArgument.
func Invalid(msg string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), ErrInvalidArgument)
}

// NotFound wraps msg as an ErrNotFound.
func NotFound(msg string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), ErrNotFound)
}

// ExternalSource wraps cause as an ErrExternalSource.
func ExternalSource(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, ErrExternalSource)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrExternalSource, cause)
}

// Invariant wraps msg as an ErrInvariant.
func Invariant(msg string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), ErrInvariant)
}

// TransientParsing wraps cause as an ErrTransientParsing. Callers log it and
// treat the affected value as absent; it is never propagated as a failure.
func TransientParsing(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", msg, ErrTransientParsing)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrTransientParsing, cause)
}

// IsInvalidArgument reports whether err wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsExternalSource reports whether err wraps ErrExternalSource.
func IsExternalSource(err error) bool { return errors.Is(err, ErrExternalSource) }

// IsInvariant reports whether err wraps ErrInvariant.
func IsInvariant(err error) bool { return errors.Is(err, ErrInvariant) }
