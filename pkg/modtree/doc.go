// SPDX-License-Identifier: MPL-2.0

// Package modtree models a world of crates as an immutable arena of nodes.
//
// Every crate is a root namespace. Namespaces own functions, structures,
// enumerations and child namespaces; structures own fields and associated
// functions; enumerations own variants. Each node carries a visibility flag
// relative to its parent.
//
// Nodes are addressed by [NodeID], an index into the arena. A node keeps a
// non-owning back reference to its parent and an ordered, name-indexed list
// of its children, so the tree never holds cyclic pointers.
//
// Worlds are assembled with a [Builder] and are read-only once [Builder.Build]
// returns. All accessors are safe for concurrent use after that point.
package modtree
