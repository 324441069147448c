// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// SeverityError indicates a problem that prevents building the workspace.
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a likely mistake that does not prevent building.
	SeverityWarning
)

type (
	// ValidationSeverity indicates the severity level of a validation error.
	ValidationSeverity int

	// ValidationError is a single problem found by Workspace.Validate.
	ValidationError struct {
		// Field locates the problem, e.g. "restaurant::back_of_house#refs[1]".
		Field    string
		Message  string
		Severity ValidationSeverity
	}

	// ValidationErrors is a collection of validation errors that implements the error interface.
	ValidationErrors []ValidationError
)

// String returns a human-readable representation of the severity level.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Error implements the error interface by joining all messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var b strings.Builder
	b.WriteString("validation failed with ")
	b.WriteString(strconv.Itoa(len(errs)))
	b.WriteString(" problems:")
	for _, err := range errs {
		b.WriteString("\n  - ")
		if err.Severity == SeverityWarning {
			b.WriteString("warning: ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// HasErrors returns true if there are any error-level issues.
func (errs ValidationErrors) HasErrors() bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-level issues.
func (errs ValidationErrors) Warnings() ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks what the schema cannot express. Name rules, duplicates
// and path syntax are left to Build, which reports them with full context.
func (ws *Workspace) Validate() ValidationErrors {
	var errs ValidationErrors
	for _, c := range ws.Crates {
		validateModule(&errs, c.Name, &c.Root)
	}
	return errs
}

func validateModule(errs *ValidationErrors, path string, m *Module) {
	add := func(field string, sev ValidationSeverity, format string, args ...any) {
		*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: sev})
	}

	for i, u := range m.Uses {
		field := fmt.Sprintf("%s#uses[%d]", path, i)
		if err := u.Expect.Validate(); err != nil {
			add(field, SeverityError, "%v", err)
		}
		if u.As != "" && strings.ContainsAny(u.Path, "{}") {
			add(field, SeverityError, "a use tree with groups cannot be renamed as a whole; rename inside the group")
		}
	}
	validateRefs(errs, path, m.Refs)
	for _, f := range m.Functions {
		validateRefs(errs, path+"::"+f.Name, f.Refs)
	}
	for _, s := range m.Structs {
		for _, fn := range s.Methods {
			validateRefs(errs, path+"::"+s.Name+"::"+fn.Name, fn.Refs)
		}
	}
	for _, e := range m.Enums {
		if len(e.Variants) == 0 {
			add(path+"::"+e.Name, SeverityWarning, "enum has no variants")
		}
	}
	for i := range m.Modules {
		child := &m.Modules[i]
		validateModule(errs, path+"::"+child.Name, child)
	}
}

func validateRefs(errs *ValidationErrors, owner string, refs []Ref) {
	for i, r := range refs {
		field := fmt.Sprintf("%s#refs[%d]", owner, i)
		if err := r.Expect.Validate(); err != nil {
			*errs = append(*errs, ValidationError{Field: field, Message: err.Error()})
		}
		if r.IsConstruct() && r.IsFieldAccess() {
			*errs = append(*errs, ValidationError{
				Field:   field,
				Message: "construct and field are mutually exclusive",
			})
		}
		if r.Expect == ExpectMissingFields && !r.IsConstruct() {
			*errs = append(*errs, ValidationError{
				Field:    field,
				Message:  "missing_fields can only be expected from a construct reference",
				Severity: SeverityWarning,
			})
		}
	}
}
