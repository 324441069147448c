// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/modvis/pkg/modtree"
)

var (
	// ErrPathNotFound is returned when a path segment names nothing.
	ErrPathNotFound = errors.New("path not found")
	// ErrAccessDenied is returned when a path segment names a private item
	// that is not visible from the referencing namespace.
	ErrAccessDenied = errors.New("access denied")
	// ErrNameConflict is returned when an import collides with another binding,
	// or when a name provided by several glob imports is referenced.
	ErrNameConflict = errors.New("name conflict")
	// ErrImportCycle is returned for imports that depend on each other.
	ErrImportCycle = errors.New("import cycle")
	// ErrMissingFields is returned when a structure literal omits fields.
	ErrMissingFields = errors.New("missing fields")
	// ErrInvalidPath is returned for syntactically invalid paths and for paths
	// used in a position they cannot appear in.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidOrigin is returned when a reference does not originate in a namespace.
	ErrInvalidOrigin = errors.New("invalid origin")
)

type (
	// PathNotFoundError reports the first segment that names nothing.
	// It wraps ErrPathNotFound for errors.Is() compatibility.
	PathNotFoundError struct {
		// Path is the path as written.
		Path string
		// Segment is the offending segment.
		Segment string
		// Index is the position of Segment among the written segments.
		Index int
		// Scope is the display path of the namespace, structure or enum searched.
		Scope string
		// Origin is the display path of the referencing namespace.
		Origin string
		// Reason optionally replaces the default "not found" detail.
		Reason string
		// Cause is the failure of an import the lookup went through, if any.
		Cause error
	}

	// AccessDeniedError reports the first segment that is not visible.
	// It wraps ErrAccessDenied for errors.Is() compatibility.
	AccessDeniedError struct {
		Path    string
		Segment string
		Index   int
		Origin  string
		// Target is the display path of the private item.
		Target string
		// Kind is the kind of the private item.
		Kind modtree.Kind
		// Owner is the namespace whose subtree may see Target.
		Owner string
		// Import is set when the private item is a non-re-exported import binding.
		Import bool
	}

	// NameConflictError reports two bindings for one name in one scope.
	// It wraps ErrNameConflict for errors.Is() compatibility.
	NameConflictError struct {
		Scope string
		Name  modtree.Name
		// Existing describes the binding that keeps the name.
		Existing []string
		// Incoming is the import path that was rejected, empty for ambiguous glob names.
		Incoming string
	}

	// ImportCycleError reports imports whose resolution depends on each other.
	// It wraps ErrImportCycle for errors.Is() compatibility.
	ImportCycleError struct {
		Cycle []string
	}

	// MissingFieldsError reports fields a structure literal does not initialize.
	// It wraps ErrMissingFields for errors.Is() compatibility.
	MissingFieldsError struct {
		Struct string
		Fields []modtree.Name
	}

	// InvalidPathError reports a malformed path or a path used where it cannot appear.
	// It wraps ErrInvalidPath for errors.Is() compatibility.
	InvalidPathError struct {
		Path   string
		Reason string
	}

	// InvalidOriginError reports a reference site that is not a namespace.
	// It wraps ErrInvalidOrigin for errors.Is() compatibility.
	InvalidOriginError struct {
		Origin string
		Kind   modtree.Kind
	}
)

// Error implements the error interface for PathNotFoundError.
func (e *PathNotFoundError) Error() string {
	detail := e.Reason
	if detail == "" {
		detail = fmt.Sprintf("%q not found in %s", e.Segment, e.Scope)
	}
	msg := fmt.Sprintf("cannot resolve %q from %s: %s", e.Path, e.Origin, detail)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrPathNotFound for errors.Is() compatibility.
func (e *PathNotFoundError) Unwrap() error { return ErrPathNotFound }

// Error implements the error interface for AccessDeniedError.
func (e *AccessDeniedError) Error() string {
	if e.Import {
		return fmt.Sprintf("cannot resolve %q from %s: import %q in %s is not re-exported",
			e.Path, e.Origin, e.Segment, e.Owner)
	}
	return fmt.Sprintf("cannot resolve %q from %s: %s %s is private to %s",
		e.Path, e.Origin, e.Kind, e.Target, e.Owner)
}

// Unwrap returns ErrAccessDenied for errors.Is() compatibility.
func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }

// Error implements the error interface for NameConflictError.
func (e *NameConflictError) Error() string {
	if e.Incoming == "" {
		return fmt.Sprintf("%q is ambiguous in %s: provided by %s; qualify the path",
			string(e.Name), e.Scope, strings.Join(e.Existing, " and "))
	}
	return fmt.Sprintf("cannot import %q into %s: %q is already bound to %s",
		e.Incoming, e.Scope, string(e.Name), strings.Join(e.Existing, ", "))
}

// Unwrap returns ErrNameConflict for errors.Is() compatibility.
func (e *NameConflictError) Unwrap() error { return ErrNameConflict }

// Error implements the error interface for ImportCycleError.
func (e *ImportCycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "import cycle detected"
	}
	return fmt.Sprintf("import cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrImportCycle for errors.Is() compatibility.
func (e *ImportCycleError) Unwrap() error { return ErrImportCycle }

// Error implements the error interface for MissingFieldsError.
func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("literal of %s does not initialize %s", e.Struct, strings.Join(names, ", "))
}

// Unwrap returns ErrMissingFields for errors.Is() compatibility.
func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Error implements the error interface for InvalidOriginError.
func (e *InvalidOriginError) Error() string {
	if e.Kind == modtree.KindInvalid {
		return fmt.Sprintf("invalid origin %s: no such node", e.Origin)
	}
	return fmt.Sprintf("invalid origin %s: references originate in namespaces, not in a %s", e.Origin, e.Kind)
}

// Unwrap returns ErrInvalidOrigin for errors.Is() compatibility.
func (e *InvalidOriginError) Unwrap() error { return ErrInvalidOrigin }
