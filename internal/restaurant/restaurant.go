// SPDX-License-Identifier: MPL-2.0

package restaurant

import (
	_ "embed"
	"fmt"

	"github.com/invowk/modvis/pkg/cratefile"
)

// FileName is the name the embedded workspace is reported under.
const FileName = "restaurant.cue"

//go:embed restaurant.cue
var source []byte

// Source returns a copy of the embedded declaration file.
func Source() []byte {
	out := make([]byte, len(source))
	copy(out, source)
	return out
}

// Workspace parses the embedded declaration file.
func Workspace() (*cratefile.Workspace, error) {
	return cratefile.Parse(source, cratefile.FormatCUE, FileName)
}

// Compile parses and builds the embedded declaration file.
func Compile() (*cratefile.Compiled, error) {
	ws, err := Workspace()
	if err != nil {
		return nil, err
	}
	return cratefile.Build(ws)
}

// Encode renders the embedded workspace in format f.
func Encode(f cratefile.Format) ([]byte, error) {
	if f == cratefile.FormatCUE {
		return Source(), nil
	}
	ws, err := Workspace()
	if err != nil {
		return nil, err
	}
	out, err := cratefile.Encode(ws, f)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", FileName, err)
	}
	return out, nil
}
