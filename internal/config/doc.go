// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/modvis/config.cue (or
// ~/Library/Application Support/modvis/config.cue on macOS,
// %APPDATA%\modvis\config.cue on Windows), or from the file given with --config.
// MODVIS_* environment variables override file values, e.g.
// MODVIS_LOG_LEVEL=debug or MODVIS_CHECK_FORMAT=json.
//
// Configuration files are validated against a CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
