// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/modvis/pkg/cueutil"
)

const (
	// FormatCUE is the primary declaration format.
	FormatCUE Format = "cue"
	// FormatJSON is plain JSON, compiled as CUE.
	FormatJSON Format = "json"
	// FormatTOML is decoded with go-toml and validated by the CUE schema.
	FormatTOML Format = "toml"
	// FormatYAML is decoded with yaml.v3 and validated by the CUE schema.
	FormatYAML Format = "yaml"

	schemaRoot = "#Workspace"
)

var (
	//go:embed cratefile_schema.cue
	workspaceSchema []byte

	// ErrUnsupportedFormat is returned for file extensions and format names
	// that are not one of cue, json, toml, yaml.
	ErrUnsupportedFormat = errors.New("unsupported declaration format")
)

type (
	// Format is a declaration file encoding.
	Format string

	// UnsupportedFormatError is returned when a format cannot be determined.
	// It wraps ErrUnsupportedFormat for errors.Is() compatibility.
	UnsupportedFormatError struct {
		Value string
	}
)

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported declaration format %q (use .cue, .json, .toml, .yaml or .yml)", e.Value)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCUE, FormatJSON, FormatTOML, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Value: s}
	}
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(filename string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", &UnsupportedFormatError{Value: filename}
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", &UnsupportedFormatError{Value: filename}
	}
	return f, nil
}

// Schema returns the embedded CUE schema.
func Schema() []byte {
	return bytes.Clone(workspaceSchema)
}

// Load reads and parses the declaration file at path.
func Load(path string) (*Workspace, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file at %s: %w", path, err)
	}
	return Parse(data, f, path)
}

// Parse decodes and validates declaration file content. filename is used
// in error messages only.
func Parse(data []byte, f Format, filename string) (*Workspace, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	var (
		result *cueutil.ParseResult[Workspace]
		err    error
	)
	switch f {
	case FormatCUE, FormatJSON:
		result, err = cueutil.ParseAndDecode[Workspace](workspaceSchema, data, schemaRoot,
			cueutil.WithFilename(filename))
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		result, err = cueutil.DecodeValue[Workspace](workspaceSchema, raw, schemaRoot,
			cueutil.WithFilename(filename))
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		result, err = cueutil.DecodeValue[Workspace](workspaceSchema, raw, schemaRoot,
			cueutil.WithFilename(filename))
	default:
		return nil, &UnsupportedFormatError{Value: string(f)}
	}
	if err != nil {
		return nil, err
	}

	ws := result.Value
	if errs := ws.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("%s: %w", filename, errs)
	}
	return ws, nil
}

// Encode renders ws in the given format. CUE output is formatted with the
// CUE formatter.
func Encode(ws *Workspace, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(ws, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(ws)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(ws); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCUE:
		v := cuecontext.New().Encode(ws)
		if v.Err() != nil {
			return nil, v.Err()
		}
		node := v.Syntax()
		if lit, ok := node.(*ast.StructLit); ok {
			node = &ast.File{Decls: lit.Elts}
		}
		return format.Node(node)
	default:
		return nil, &UnsupportedFormatError{Value: string(f)}
	}
}
