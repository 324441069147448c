// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// ActionableError adds the failed operation and fix suggestions to an error.
// Issue holds the Markdown explanation for a class of failure (access
// denied, import cycle, unreadable declaration file, ...); For maps an error
// to its Issue and `modvis explain` renders it with glamour.
package issue
