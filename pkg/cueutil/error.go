// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidCUEPath is returned when a CUEPath value is empty or blank.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a JSON-path style location inside a parsed file,
	// e.g. "crates[0].root.modules[1].uses[0].path".
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath value is malformed.
	// It wraps ErrInvalidCUEPath for errors.Is() compatibility.
	InvalidCUEPathError struct {
		Value CUEPath
	}

	// ValidationError represents one CUE validation error with context.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string

		// CUEPath locates the invalid value (e.g., "crates[0].name").
		CUEPath CUEPath

		// Message is the validation error message.
		Message string

		// Suggestion is an optional hint for fixing the error.
		Suggestion string
	}

	// FileError collects every validation error reported for one file.
	FileError struct {
		FilePath string
		Issues   []*ValidationError
	}
)

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Validate returns an error if the path is empty or whitespace only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidCUEPathError.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must not be empty", string(e.Value))
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns nil (ValidationError is a leaf error).
func (e *ValidationError) Unwrap() error {
	return nil
}

// Error implements the error interface. A single issue renders on one line.
func (e *FileError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if issue.CUEPath != "" {
			lines[i] = fmt.Sprintf("%s: %s", issue.CUEPath, issue.Message)
		} else {
			lines[i] = issue.Message
		}
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap returns the individual issues for errors.As() traversal.
func (e *FileError) Unwrap() []error {
	errs := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		errs[i] = issue
	}
	return errs
}

// FormatError formats a CUE error with JSON path prefixes for clear error messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - restaurant.cue: crates[0].root.modules[0].name: invalid value "self"
//   - config.cue: check.format: 2 errors in empty disjunction
//
// Non-CUE errors are wrapped with the file path. CUE errors become a *FileError.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := cueerrors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	fe := &FileError{FilePath: filePath}
	for _, e := range cueErrors {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}
		fe.Issues = append(fe.Issues, &ValidationError{
			FilePath: filePath,
			CUEPath:  CUEPath(pathStr),
			Message:  msg,
		})
	}
	return fe
}

// formatPath converts a CUE error path to JSON-path notation for user-facing messages.
// CUE provides error paths as flat string slices (e.g., ["crates", "0", "name"]) where
// numeric elements represent array indices; this produces "crates[0].name".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
