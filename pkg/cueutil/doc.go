// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the
// declaration file and config packages:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) user data and unify with schema
//  3. Validate and decode to Go struct
//
// Declaration files may also be written in JSON, TOML or YAML. Those are
// decoded into generic maps first and handed to DecodeValue, which encodes
// them into CUE so that every format is validated by the same schema.
//
// # Usage
//
//	//go:embed cratefile_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Workspace](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Workspace",
//	    cueutil.WithFilename("restaurant.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
