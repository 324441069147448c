// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modvis.
//
// This package implements the Cobra command hierarchy for the modvis CLI:
// checking declaration files, resolving single paths, inspecting namespace
// trees and scopes, printing the embedded restaurant example, explaining
// error kinds and managing configuration.
package cmd
