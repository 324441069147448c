// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"strings"
)

// PathSeparator joins path segments.
const PathSeparator = "::"

// NoNode is the zero NodeID. It never addresses a node.
const NoNode NodeID = 0

type (
	// NodeID addresses a node in a World's arena.
	NodeID uint32

	node struct {
		kind     Kind
		name     Name
		vis      Visibility
		parent   NodeID
		crate    NodeID
		depth    int
		children []NodeID
		index    map[Name]NodeID
	}

	// World is an immutable forest of crates.
	World struct {
		// nodes[0] is a placeholder so that NoNode never addresses a real node.
		nodes      []node
		crates     []NodeID
		crateIndex map[Name]NodeID
	}
)

// IsValid reports whether id is not NoNode.
func (id NodeID) IsValid() bool { return id != NoNode }

// Len returns the number of nodes in the world.
func (w *World) Len() int { return len(w.nodes) - 1 }

// Contains reports whether id addresses a node of this world.
func (w *World) Contains(id NodeID) bool {
	return id != NoNode && int(id) < len(w.nodes)
}

// Crates returns the crate roots in declaration order.
func (w *World) Crates() []NodeID {
	out := make([]NodeID, len(w.crates))
	copy(out, w.crates)
	return out
}

// Crate returns the root of the crate with the given name.
func (w *World) Crate(name Name) (NodeID, bool) {
	id, ok := w.crateIndex[name]
	return id, ok
}

// Kind returns the kind of the node, or KindInvalid for unknown ids.
func (w *World) Kind(id NodeID) Kind {
	if !w.Contains(id) {
		return KindInvalid
	}
	return w.nodes[id].kind
}

// Name returns the node's own name. A crate root is named after its crate.
func (w *World) Name(id NodeID) Name {
	if !w.Contains(id) {
		return ""
	}
	return w.nodes[id].name
}

// Visibility returns the node's visibility flag. Crate roots are always public.
func (w *World) Visibility(id NodeID) Visibility {
	if !w.Contains(id) {
		return VisPrivate
	}
	return w.nodes[id].vis
}

// Parent returns the node's parent, or NoNode for crate roots.
func (w *World) Parent(id NodeID) NodeID {
	if !w.Contains(id) {
		return NoNode
	}
	return w.nodes[id].parent
}

// CrateOf returns the root of the crate containing id.
func (w *World) CrateOf(id NodeID) NodeID {
	if !w.Contains(id) {
		return NoNode
	}
	return w.nodes[id].crate
}

// IsRoot reports whether id is a crate root.
func (w *World) IsRoot(id NodeID) bool {
	return w.Contains(id) && w.nodes[id].parent == NoNode
}

// Depth returns the number of edges between id and its crate root.
func (w *World) Depth(id NodeID) int {
	if !w.Contains(id) {
		return -1
	}
	return w.nodes[id].depth
}

// Children returns the node's children in declaration order.
func (w *World) Children(id NodeID) []NodeID {
	if !w.Contains(id) {
		return nil
	}
	src := w.nodes[id].children
	out := make([]NodeID, len(src))
	copy(out, src)
	return out
}

// Child returns the direct child of id with the given name.
func (w *World) Child(id NodeID, name Name) (NodeID, bool) {
	if !w.Contains(id) {
		return NoNode, false
	}
	child, ok := w.nodes[id].index[name]
	return child, ok
}

// Owner returns the namespace whose subtree may see id when id is private:
// the nearest namespace strictly enclosing it. For a field, an associated
// function or a variant this is the namespace around the structure or
// enumeration. A crate root owns itself.
func (w *World) Owner(id NodeID) NodeID {
	if !w.Contains(id) {
		return NoNode
	}
	for p := w.nodes[id].parent; p != NoNode; p = w.nodes[p].parent {
		if w.nodes[p].kind == KindNamespace {
			return p
		}
	}
	return id
}

// Namespace returns id itself when it is a namespace, and its Owner otherwise.
func (w *World) Namespace(id NodeID) NodeID {
	if w.Kind(id) == KindNamespace {
		return id
	}
	return w.Owner(id)
}

// IsAncestorOrSelf reports whether anc is id or one of id's ancestors.
func (w *World) IsAncestorOrSelf(anc, id NodeID) bool {
	if !w.Contains(anc) || !w.Contains(id) {
		return false
	}
	// Walking up from the deeper node is bounded by the depth difference.
	ancDepth := w.nodes[anc].depth
	for cur := id; cur != NoNode; cur = w.nodes[cur].parent {
		if cur == anc {
			return true
		}
		if w.nodes[cur].depth <= ancDepth {
			return false
		}
	}
	return false
}

// CommonAncestor returns the deepest node that is an ancestor-or-self of both
// a and b, or NoNode when they live in different crates.
func (w *World) CommonAncestor(a, b NodeID) NodeID {
	if !w.Contains(a) || !w.Contains(b) || w.nodes[a].crate != w.nodes[b].crate {
		return NoNode
	}
	for w.nodes[a].depth > w.nodes[b].depth {
		a = w.nodes[a].parent
	}
	for w.nodes[b].depth > w.nodes[a].depth {
		b = w.nodes[b].parent
	}
	for a != b {
		a = w.nodes[a].parent
		b = w.nodes[b].parent
	}
	return a
}

// Segments returns the names from the crate root down to id, crate name first.
func (w *World) Segments(id NodeID) []Name {
	if !w.Contains(id) {
		return nil
	}
	out := make([]Name, w.nodes[id].depth+1)
	for cur := id; cur != NoNode; cur = w.nodes[cur].parent {
		out[w.nodes[cur].depth] = w.nodes[cur].name
	}
	return out
}

// PathOf renders the absolute display path of id, e.g.
// "restaurant::front_of_house::hosting::add_to_waitlist".
func (w *World) PathOf(id NodeID) string {
	segs := w.Segments(id)
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = string(s)
	}
	return strings.Join(parts, PathSeparator)
}

// Lookup finds a node by its absolute display path without applying any
// visibility rule. It is meant for tooling that addresses nodes directly,
// such as choosing the origin namespace of a reference.
func (w *World) Lookup(path string) (NodeID, bool) {
	parts := strings.Split(strings.TrimSpace(path), PathSeparator)
	if len(parts) == 0 {
		return NoNode, false
	}
	cur, ok := w.Crate(Name(strings.TrimSpace(parts[0])))
	if !ok {
		return NoNode, false
	}
	for _, p := range parts[1:] {
		cur, ok = w.Child(cur, Name(strings.TrimSpace(p)))
		if !ok {
			return NoNode, false
		}
	}
	return cur, true
}

// Walk visits every node of the crate rooted at root in depth-first,
// declaration order. Returning false from fn skips the node's children.
func (w *World) Walk(root NodeID, fn func(id NodeID, depth int) bool) {
	if !w.Contains(root) {
		return
	}
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if !fn(id, w.nodes[id].depth) {
			return
		}
		for _, c := range w.nodes[id].children {
			visit(c)
		}
	}
	visit(root)
}
