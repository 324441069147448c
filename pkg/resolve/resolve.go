// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/modvis/pkg/modtree"
)

const (
	failNotFound failKind = iota + 1
	failDenied
	failConflict
	failImport
)

type (
	failKind uint8

	// entry is a successful single-name lookup.
	entry struct {
		id  modtree.NodeID
		via string
	}

	// failure is an unsuccessful single-name lookup, turned into a public
	// error by the caller that knows the full path.
	failure struct {
		kind   failKind
		target modtree.NodeID
		// binding is set when a non-re-exported import blocked the lookup.
		binding *binding
		reason  string
		cause   error
		// candidates lists the conflicting glob providers.
		candidates []string
	}
)

// Resolve parses path and resolves it from the origin namespace.
func (c *Checker) Resolve(origin modtree.NodeID, path string) (Target, error) {
	p, err := ParsePath(path)
	if err != nil {
		return Target{}, err
	}
	return c.resolveChecked(origin, p, path)
}

// ResolvePath resolves an already parsed path from the origin namespace.
func (c *Checker) ResolvePath(origin modtree.NodeID, p Path) (Target, error) {
	return c.resolveChecked(origin, p, p.String())
}

func (c *Checker) resolveChecked(origin modtree.NodeID, p Path, raw string) (Target, error) {
	if p.Glob {
		return Target{}, &InvalidPathError{Path: raw, Reason: "glob paths can only be imported"}
	}
	return c.resolve(origin, p, raw, nil)
}

// resolve walks p from origin. skip is the binding being linked, which must
// not satisfy the lookup of its own first segment.
func (c *Checker) resolve(origin modtree.NodeID, p Path, raw string, skip *binding) (Target, error) {
	w := c.world
	if kind := w.Kind(origin); kind != modtree.KindNamespace {
		return Target{}, &InvalidOriginError{Origin: originLabel(w, origin), Kind: kind}
	}
	originPath := w.PathOf(origin)
	written := p.written()

	var (
		cur   modtree.NodeID
		via   []string
		start int
	)
	switch p.Anchor {
	case AnchorCrate:
		cur = w.CrateOf(origin)
	case AnchorSelf:
		cur = origin
	case AnchorSuper:
		cur = origin
		lead := p.anchorLen() - p.Supers
		for i := range p.Supers {
			parent := w.Parent(cur)
			if parent == modtree.NoNode {
				return Target{}, &PathNotFoundError{
					Path:    raw,
					Segment: modtree.KeywordSuper,
					Index:   lead + i,
					Scope:   w.PathOf(cur),
					Origin:  originPath,
					Reason:  fmt.Sprintf("%s is a crate root and has no parent", w.PathOf(cur)),
				}
			}
			cur = parent
		}
	case AnchorRelative:
		first := p.Segments[0]
		e, fail := c.lookup(origin, origin, first, skip)
		if fail != nil && fail.kind == failNotFound && fail.cause == nil {
			if root, ok := w.Crate(first); ok {
				e, fail = entry{id: root}, nil
			}
		}
		if fail != nil {
			return Target{}, c.failureError(fail, raw, string(first), 0, origin, origin)
		}
		cur = e.id
		if e.via != "" {
			via = append(via, e.via)
		}
		start = 1
	}

	offset := p.anchorLen()
	for i := start; i < len(p.Segments); i++ {
		name := p.Segments[i]
		e, fail := c.lookup(cur, origin, name, nil)
		if fail != nil {
			return Target{}, c.failureError(fail, raw, written[offset+i], offset+i, cur, origin)
		}
		cur = e.id
		if e.via != "" {
			via = append(via, e.via)
		}
	}

	return Target{
		ID:   cur,
		Kind: w.Kind(cur),
		Path: w.PathOf(cur),
		Via:  via,
	}, nil
}

// lookup finds name among the members of container as seen from origin:
// own children first, then (for namespaces) explicit imports, then glob imports.
func (c *Checker) lookup(container, origin modtree.NodeID, name modtree.Name, skip *binding) (entry, *failure) {
	w := c.world
	kind := w.Kind(container)
	if !kind.IsContainer() {
		return entry{}, &failure{
			kind:   failNotFound,
			reason: fmt.Sprintf("%s %s has no members", kind, w.PathOf(container)),
		}
	}

	if child, ok := w.Child(container, name); ok {
		if !c.Visible(child, origin) {
			return entry{}, &failure{kind: failDenied, target: child}
		}
		return entry{id: child}, nil
	}
	if kind != modtree.KindNamespace {
		return entry{}, &failure{kind: failNotFound}
	}

	sc := c.scopes[container]
	if sc == nil {
		return entry{}, &failure{kind: failNotFound}
	}

	if b, ok := sc.explicit[name]; ok && b != skip {
		if !b.imp.Public && origin != container {
			return entry{}, &failure{kind: failDenied, binding: b}
		}
		if err := c.require(b); err != nil {
			if errors.Is(err, ErrImportCycle) {
				return entry{}, &failure{kind: failImport, cause: err}
			}
			return entry{}, &failure{
				kind:   failNotFound,
				reason: fmt.Sprintf("import %s failed", b.key),
				cause:  err,
			}
		}
		return entry{id: b.target.ID, via: b.key}, nil
	}

	return c.lookupGlobs(sc, container, origin, name, skip)
}

// lookupGlobs consults the glob imports of a namespace. Globs that are
// themselves being linked, or that failed, contribute nothing.
func (c *Checker) lookupGlobs(sc *scope, container, origin modtree.NodeID, name modtree.Name, skip *binding) (entry, *failure) {
	var (
		found   []entry
		sources []string
	)
	for _, g := range sc.globs {
		if g == skip || g.state == stateLinking {
			continue
		}
		if !g.imp.Public && origin != container {
			continue
		}
		if err := c.require(g); err != nil {
			continue
		}
		for _, id := range c.globMember(g.target.ID, name, nil) {
			if slices.ContainsFunc(found, func(e entry) bool { return e.id == id }) {
				continue
			}
			found = append(found, entry{id: id, via: g.key})
			sources = append(sources, fmt.Sprintf("%s (%s)", g.key, c.world.PathOf(id)))
		}
	}

	switch len(found) {
	case 0:
		return entry{}, &failure{kind: failNotFound}
	case 1:
		return found[0], nil
	default:
		return entry{}, &failure{kind: failConflict, candidates: sources}
	}
}

// globMember returns what a glob import of source provides under name: a
// public direct child, a re-exported import of source, or else whatever
// the public glob imports of source provide. Own declarations and explicit
// imports of source shadow its globs, public or not. More than one result
// means the name is ambiguous. seen guards against globs importing each
// other.
func (c *Checker) globMember(source modtree.NodeID, name modtree.Name, seen map[modtree.NodeID]bool) []modtree.NodeID {
	w := c.world
	if child, ok := w.Child(source, name); ok {
		if w.Visibility(child) == modtree.VisPublic {
			return []modtree.NodeID{child}
		}
		return nil
	}
	sc := c.scopes[source]
	if sc == nil {
		return nil
	}
	if b, ok := sc.explicit[name]; ok {
		if !b.imp.Public || b.state == stateLinking || c.require(b) != nil {
			return nil
		}
		return []modtree.NodeID{b.target.ID}
	}

	if seen == nil {
		seen = make(map[modtree.NodeID]bool)
	}
	if seen[source] {
		return nil
	}
	seen[source] = true

	var ids []modtree.NodeID
	for _, g := range sc.globs {
		if !g.imp.Public || g.state == stateLinking || c.require(g) != nil {
			continue
		}
		for _, id := range c.globMember(g.target.ID, name, seen) {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// globMembers lists every name a glob import of source provides, in
// declaration order: public children, re-exported imports, then names from
// public glob imports that neither shadows.
func (c *Checker) globMembers(source modtree.NodeID) []modtree.Name {
	return c.collectGlobMembers(source, make(map[modtree.NodeID]bool))
}

func (c *Checker) collectGlobMembers(source modtree.NodeID, seen map[modtree.NodeID]bool) []modtree.Name {
	if seen[source] {
		return nil
	}
	seen[source] = true

	w := c.world
	var names []modtree.Name
	for _, child := range w.Children(source) {
		if w.Visibility(child) == modtree.VisPublic {
			names = append(names, w.Name(child))
		}
	}
	sc := c.scopes[source]
	if sc == nil {
		return names
	}
	for _, b := range c.bindings {
		if b.name != "" && b.imp.In == source && b.imp.Public && b.err == nil && sc.explicit[b.name] == b {
			names = append(names, b.name)
		}
	}
	for _, g := range sc.globs {
		if !g.imp.Public || g.err != nil || g.state != stateLinked {
			continue
		}
		for _, name := range c.collectGlobMembers(g.target.ID, seen) {
			if _, declared := w.Child(source, name); declared {
				continue
			}
			if _, bound := sc.explicit[name]; bound {
				continue
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func (c *Checker) failureError(f *failure, raw, segment string, index int, container, origin modtree.NodeID) error {
	w := c.world
	originPath := w.PathOf(origin)
	switch f.kind {
	case failDenied:
		if f.binding != nil {
			return &AccessDeniedError{
				Path:    raw,
				Segment: segment,
				Index:   index,
				Origin:  originPath,
				Target:  f.binding.key,
				Owner:   w.PathOf(container),
				Import:  true,
			}
		}
		return &AccessDeniedError{
			Path:    raw,
			Segment: segment,
			Index:   index,
			Origin:  originPath,
			Target:  w.PathOf(f.target),
			Kind:    w.Kind(f.target),
			Owner:   w.PathOf(w.Owner(f.target)),
		}
	case failConflict:
		return &NameConflictError{
			Scope:    w.PathOf(container),
			Name:     modtree.Name(segment),
			Existing: f.candidates,
		}
	case failImport:
		return f.cause
	default:
		return &PathNotFoundError{
			Path:    raw,
			Segment: segment,
			Index:   index,
			Scope:   w.PathOf(container),
			Origin:  originPath,
			Reason:  f.reason,
			Cause:   f.cause,
		}
	}
}

func originLabel(w *modtree.World, id modtree.NodeID) string {
	if w.Contains(id) {
		return w.PathOf(id)
	}
	return fmt.Sprintf("#%d", id)
}
