// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// KeywordCrate anchors a path at the root of the referencing crate.
	KeywordCrate = "crate"
	// KeywordSelf anchors a path at the referencing namespace.
	KeywordSelf = "self"
	// KeywordSuper anchors a path at the parent of the referencing namespace.
	KeywordSuper = "super"
)

var (
	// ErrInvalidName is returned when a Name does not match the identifier rules.
	ErrInvalidName = errors.New("invalid name")

	namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// Name is a single identifier: a crate, namespace, item, field or variant name.
	// Path keywords (crate, self, super) and the lone underscore are not names.
	Name string

	// InvalidNameError is returned when a Name value is malformed.
	// It wraps ErrInvalidName for errors.Is() compatibility.
	InvalidNameError struct {
		Value  Name
		Reason string
	}
)

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// Validate returns nil if the Name is a usable identifier.
func (n Name) Validate() error {
	switch {
	case n == "":
		return &InvalidNameError{Value: n, Reason: "must not be empty"}
	case IsKeyword(string(n)):
		return &InvalidNameError{Value: n, Reason: "is a reserved path keyword"}
	case n == "_":
		return &InvalidNameError{Value: n, Reason: "a lone underscore cannot name a declaration"}
	case !namePattern.MatchString(string(n)):
		return &InvalidNameError{Value: n, Reason: "must start with a letter or underscore and contain only letters, digits and underscores"}
	}
	return nil
}

// IsKeyword reports whether s is one of the path anchor keywords.
func IsKeyword(s string) bool {
	return s == KeywordCrate || s == KeywordSelf || s == KeywordSuper
}

// Error implements the error interface for InvalidNameError.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", string(e.Value), e.Reason)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }
