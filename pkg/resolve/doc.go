// SPDX-License-Identifier: MPL-2.0

// Package resolve implements visibility-checked path resolution over a
// [modtree.World].
//
// A [Checker] is created once per world together with the world's scope
// imports. Creating it links every import: explicit, renamed, re-exported
// and glob imports are resolved under the same rules as ordinary references,
// and rejected imports are kept as diagnostics (see [Checker.Err]).
//
// Resolution is a pure function of (world, origin namespace, path). It walks
// the path segment by segment and stops at the first segment that either
// does not exist ([ErrPathNotFound]) or is private and not visible from the
// origin ([ErrAccessDenied]).
//
// # Paths
//
//   - crate::a::b     absolute, from the root of the origin's crate
//   - self::a::b      relative, from the origin namespace
//   - super::a        relative, from the origin's parent (repeatable, and
//     may follow a leading self: self::super::a)
//   - a::b            relative; the first segment is looked up in the origin's
//     scope (own declarations, then explicit imports, then glob imports) and
//     falls back to a crate of the same name
//   - a::b::*         glob, only valid in imports
//
// # Visibility
//
// A private node is visible from namespace N iff N is the node's owner
// namespace or a descendant of it. Public nodes are visible from anywhere;
// reaching them still requires every segment on the way to be visible.
// Non-re-exported imports are visible only from the importing namespace
// itself.
package resolve
