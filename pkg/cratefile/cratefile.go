// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// ExpectOK means the reference must resolve.
	ExpectOK Expectation = "ok"
	// ExpectNotFound means some segment must name nothing.
	ExpectNotFound Expectation = "not_found"
	// ExpectAccessDenied means some segment must name an item that is not visible.
	ExpectAccessDenied Expectation = "access_denied"
	// ExpectConflict means the name must be ambiguous or the import must collide.
	ExpectConflict Expectation = "conflict"
	// ExpectMissingFields means a structure literal must leave fields out.
	ExpectMissingFields Expectation = "missing_fields"
	// ExpectCycle means the import must be part of an import cycle.
	ExpectCycle Expectation = "cycle"
	// ExpectInvalid means the path must be rejected as malformed or misplaced.
	ExpectInvalid Expectation = "invalid"
)

// ErrInvalidExpectation is returned when an Expectation value is not recognized.
var ErrInvalidExpectation = errors.New("invalid expectation")

var allExpectations = []Expectation{
	ExpectOK, ExpectNotFound, ExpectAccessDenied, ExpectConflict,
	ExpectMissingFields, ExpectCycle, ExpectInvalid,
}

type (
	// Expectation is the declared outcome of a reference site or import.
	Expectation string

	// InvalidExpectationError is returned when an Expectation value is not recognized.
	// It wraps ErrInvalidExpectation for errors.Is() compatibility.
	InvalidExpectationError struct {
		Value Expectation
	}

	// Workspace is the root of a declaration file.
	Workspace struct {
		Crates []Crate `json:"crates" toml:"crates" yaml:"crates"`
	}

	// Crate is a named root namespace.
	Crate struct {
		Name string `json:"name" toml:"name" yaml:"name"`
		Root Module `json:"root" toml:"root" yaml:"root"`
	}

	// Module is a namespace. The root module of a crate has no name and no
	// visibility flag.
	Module struct {
		Name      string     `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
		Pub       bool       `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
		Functions []Function `json:"functions,omitempty" toml:"functions,omitempty" yaml:"functions,omitempty"`
		Structs   []Struct   `json:"structs,omitempty" toml:"structs,omitempty" yaml:"structs,omitempty"`
		Enums     []Enum     `json:"enums,omitempty" toml:"enums,omitempty" yaml:"enums,omitempty"`
		Modules   []Module   `json:"modules,omitempty" toml:"modules,omitempty" yaml:"modules,omitempty"`
		Uses      []Use      `json:"uses,omitempty" toml:"uses,omitempty" yaml:"uses,omitempty"`
		Refs      []Ref      `json:"refs,omitempty" toml:"refs,omitempty" yaml:"refs,omitempty"`
	}

	// Function is a free function, or an associated function of a structure.
	// Its reference sites originate in the enclosing module.
	Function struct {
		Name string `json:"name" toml:"name" yaml:"name"`
		Pub  bool   `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
		Refs []Ref  `json:"refs,omitempty" toml:"refs,omitempty" yaml:"refs,omitempty"`
	}

	// Struct is a structure with fields and associated functions.
	Struct struct {
		Name    string     `json:"name" toml:"name" yaml:"name"`
		Pub     bool       `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
		Fields  []Field    `json:"fields,omitempty" toml:"fields,omitempty" yaml:"fields,omitempty"`
		Methods []Function `json:"methods,omitempty" toml:"methods,omitempty" yaml:"methods,omitempty"`
	}

	// Field is a structure field with its own visibility flag.
	Field struct {
		Name string `json:"name" toml:"name" yaml:"name"`
		Pub  bool   `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
	}

	// Enum is an enumeration. Variants share its visibility.
	Enum struct {
		Name     string   `json:"name" toml:"name" yaml:"name"`
		Pub      bool     `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
		Variants []string `json:"variants,omitempty" toml:"variants,omitempty" yaml:"variants,omitempty"`
	}

	// Use is an import. Path may be a use tree with brace groups
	// ("std::{cmp::Ordering, io}"); it expands into one import per leaf.
	Use struct {
		Path   string      `json:"path" toml:"path" yaml:"path"`
		As     string      `json:"as,omitempty" toml:"as,omitempty" yaml:"as,omitempty"`
		Pub    bool        `json:"pub,omitempty" toml:"pub,omitempty" yaml:"pub,omitempty"`
		Expect Expectation `json:"expect,omitempty" toml:"expect,omitempty" yaml:"expect,omitempty"`
		Note   string      `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty"`
	}

	// Ref is a reference site: a path used from the enclosing module. With
	// Construct it is a structure literal naming those fields; with Field it
	// is a field access on a value of the structure.
	Ref struct {
		Path      string      `json:"path" toml:"path" yaml:"path"`
		Construct []string    `json:"construct,omitempty" toml:"construct,omitempty" yaml:"construct,omitempty"`
		Field     string      `json:"field,omitempty" toml:"field,omitempty" yaml:"field,omitempty"`
		Expect    Expectation `json:"expect,omitempty" toml:"expect,omitempty" yaml:"expect,omitempty"`
		Note      string      `json:"note,omitempty" toml:"note,omitempty" yaml:"note,omitempty"`
	}
)

// String returns the string representation of the Expectation.
func (e Expectation) String() string { return string(e) }

// OrDefault returns ExpectOK for the zero value.
func (e Expectation) OrDefault() Expectation {
	if e == "" {
		return ExpectOK
	}
	return e
}

// Validate returns an error if the expectation is not a known outcome.
// The zero value is valid and means ExpectOK.
func (e Expectation) Validate() error {
	if e == "" || slices.Contains(allExpectations, e) {
		return nil
	}
	return &InvalidExpectationError{Value: e}
}

// Expectations lists every known expectation.
func Expectations() []Expectation {
	return slices.Clone(allExpectations)
}

// Error implements the error interface for InvalidExpectationError.
func (e *InvalidExpectationError) Error() string {
	return fmt.Sprintf("invalid expectation %q (valid: %v)", string(e.Value), allExpectations)
}

// Unwrap returns ErrInvalidExpectation for errors.Is() compatibility.
func (e *InvalidExpectationError) Unwrap() error { return ErrInvalidExpectation }

// IsConstruct reports whether the reference is a structure literal.
func (r Ref) IsConstruct() bool { return r.Construct != nil }

// IsFieldAccess reports whether the reference is a field access.
func (r Ref) IsFieldAccess() bool { return r.Field != "" }
