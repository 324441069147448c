// SPDX-License-Identifier: MPL-2.0

// Package check runs the reference sites and imports of a declaration file
// through the resolver and compares each outcome with its declared
// expectation.
package check
