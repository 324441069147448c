// SPDX-License-Identifier: MPL-2.0

package check

import (
	"errors"

	"github.com/invowk/modvis/pkg/cratefile"
	"github.com/invowk/modvis/pkg/resolve"
)

// Outcomes mirror the expectations a declaration file can state.
const (
	OutcomeOK            Outcome = "ok"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeAccessDenied  Outcome = "access_denied"
	OutcomeConflict      Outcome = "conflict"
	OutcomeMissingFields Outcome = "missing_fields"
	OutcomeCycle         Outcome = "cycle"
	OutcomeInvalid       Outcome = "invalid"
	// OutcomeError is any failure that no expectation can name.
	OutcomeError Outcome = "error"
)

// Outcome is what actually happened to a reference site or import.
// Every outcome except OutcomeError has a matching cratefile.Expectation.
type Outcome string

// Classify maps a resolution error to its outcome. A nil error is OutcomeOK.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, resolve.ErrAccessDenied):
		return OutcomeAccessDenied
	case errors.Is(err, resolve.ErrImportCycle):
		return OutcomeCycle
	case errors.Is(err, resolve.ErrNameConflict):
		return OutcomeConflict
	case errors.Is(err, resolve.ErrMissingFields):
		return OutcomeMissingFields
	case errors.Is(err, resolve.ErrPathNotFound):
		return OutcomeNotFound
	case errors.Is(err, resolve.ErrInvalidPath), errors.Is(err, resolve.ErrInvalidOrigin):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// String returns the string representation of the Outcome.
func (o Outcome) String() string { return string(o) }

// Satisfies reports whether the outcome is the one expected.
func (o Outcome) Satisfies(e cratefile.Expectation) bool {
	return string(o) == string(e.OrDefault())
}
