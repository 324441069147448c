// SPDX-License-Identifier: MPL-2.0

package check

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/invowk/modvis/pkg/cratefile"
)

// ErrMismatch is wrapped by every MismatchError.
var ErrMismatch = errors.New("outcome does not match expectation")

type (
	// SiteKind says which check a reference site asks for.
	SiteKind string

	// SiteResult is the outcome of one reference site.
	SiteResult struct {
		Location string                `json:"location"`
		Origin   string                `json:"origin"`
		Kind     SiteKind              `json:"kind"`
		Path     string                `json:"path"`
		Expect   cratefile.Expectation `json:"expect"`
		Outcome  Outcome               `json:"outcome"`
		Target   string                `json:"target,omitempty"`
		Via      []string              `json:"via,omitempty"`
		Error    string                `json:"error,omitempty"`
		Note     string                `json:"note,omitempty"`
		Err      error                 `json:"-"`
	}

	// ImportResult is the linking outcome of one import.
	ImportResult struct {
		Location string                `json:"location"`
		Key      string                `json:"key"`
		Scope    string                `json:"scope"`
		Path     string                `json:"path"`
		Alias    string                `json:"alias,omitempty"`
		Public   bool                  `json:"pub,omitempty"`
		Glob     bool                  `json:"glob,omitempty"`
		Expect   cratefile.Expectation `json:"expect"`
		Outcome  Outcome               `json:"outcome"`
		Target   string                `json:"target,omitempty"`
		Error    string                `json:"error,omitempty"`
		Note     string                `json:"note,omitempty"`
		Err      error                 `json:"-"`
	}

	// Report is the result of checking one declaration file.
	Report struct {
		Name     string         `json:"name"`
		Imports  []ImportResult `json:"imports"`
		Sites    []SiteResult   `json:"sites"`
		Warnings []string       `json:"warnings,omitempty"`
		Duration time.Duration  `json:"duration"`
	}

	// Summary counts the results of a report.
	Summary struct {
		Sites, Imports, Mismatches int
	}

	// MismatchError reports a site or import whose outcome differs from its
	// expectation. It wraps ErrMismatch for errors.Is() compatibility.
	MismatchError struct {
		Location string
		Expect   cratefile.Expectation
		Outcome  Outcome
		Err      error
	}
)

// Site kinds.
const (
	KindPath      SiteKind = "path"
	KindConstruct SiteKind = "construct"
	KindField     SiteKind = "field"
)

// Matched reports whether the site behaved as declared.
func (r SiteResult) Matched() bool { return r.Outcome.Satisfies(r.Expect) }

// Matched reports whether the import behaved as declared.
func (r ImportResult) Matched() bool { return r.Outcome.Satisfies(r.Expect) }

// Summary counts sites, imports and mismatches.
func (r *Report) Summary() Summary {
	s := Summary{Sites: len(r.Sites), Imports: len(r.Imports)}
	for _, i := range r.Imports {
		if !i.Matched() {
			s.Mismatches++
		}
	}
	for _, site := range r.Sites {
		if !site.Matched() {
			s.Mismatches++
		}
	}
	return s
}

// OK reports whether every site and import matched its expectation.
func (r *Report) OK() bool { return r.Summary().Mismatches == 0 }

// Err aggregates a MismatchError per unexpected outcome, imports first, or
// returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, i := range r.Imports {
		if !i.Matched() {
			result = multierror.Append(result, &MismatchError{
				Location: i.Location, Expect: i.Expect, Outcome: i.Outcome, Err: i.Err,
			})
		}
	}
	for _, s := range r.Sites {
		if !s.Matched() {
			result = multierror.Append(result, &MismatchError{
				Location: s.Location, Expect: s.Expect, Outcome: s.Outcome, Err: s.Err,
			})
		}
	}
	return result.ErrorOrNil()
}

// Error implements the error interface for MismatchError.
func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s: expected %s, got %s", e.Location, e.Expect.OrDefault(), e.Outcome)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrMismatch and the resolution error, if any.
func (e *MismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMismatch}
	}
	return []error{ErrMismatch, e.Err}
}
