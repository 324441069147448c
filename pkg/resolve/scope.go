// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"slices"

	"github.com/invowk/modvis/pkg/modtree"
)

const (
	// SourceDeclared marks a name declared in the namespace itself.
	SourceDeclared BindingSource = iota
	// SourceImport marks a name bound by an explicit import.
	SourceImport
	// SourceGlob marks a name provided by a glob import.
	SourceGlob
)

type (
	// BindingSource says how a name entered a scope.
	BindingSource uint8

	// ScopeEntry is one name usable without qualification inside a namespace.
	ScopeEntry struct {
		Name   modtree.Name
		Source BindingSource
		// Public is set for public declarations and re-exported imports.
		Public bool
		// Import is the key of the import that bound the name.
		Import string
		Target Target
		Err    error
	}
)

func (s BindingSource) String() string {
	switch s {
	case SourceImport:
		return "import"
	case SourceGlob:
		return "glob"
	default:
		return "declared"
	}
}

// Scope lists the names usable unqualified inside namespace ns: its own
// declarations, then its explicit imports, then names from its glob imports
// that nothing else shadows (sorted by name). Failed imports are listed with
// their error.
func (c *Checker) Scope(ns modtree.NodeID) []ScopeEntry {
	w := c.world
	if w.Kind(ns) != modtree.KindNamespace {
		return nil
	}

	var out []ScopeEntry
	taken := make(map[modtree.Name]bool)
	for _, child := range w.Children(ns) {
		name := w.Name(child)
		taken[name] = true
		out = append(out, ScopeEntry{
			Name:   name,
			Source: SourceDeclared,
			Public: w.Visibility(child) == modtree.VisPublic,
			Target: Target{ID: child, Kind: w.Kind(child), Path: w.PathOf(child)},
		})
	}

	sc := c.scopes[ns]
	if sc == nil {
		return out
	}
	for _, b := range c.bindings {
		if b.imp.In != ns || b.name == "" || sc.explicit[b.name] != b {
			continue
		}
		taken[b.name] = true
		out = append(out, ScopeEntry{
			Name:   b.name,
			Source: SourceImport,
			Public: b.imp.Public,
			Import: b.key,
			Target: b.target,
			Err:    b.err,
		})
	}

	var globNames []modtree.Name
	for _, g := range sc.globs {
		if g.err != nil {
			continue
		}
		for _, name := range c.globMembers(g.target.ID) {
			if !taken[name] && !slices.Contains(globNames, name) {
				globNames = append(globNames, name)
			}
		}
	}
	slices.Sort(globNames)
	for _, name := range globNames {
		e, fail := c.lookupGlobs(sc, ns, ns, name, nil)
		se := ScopeEntry{Name: name, Source: SourceGlob}
		if fail != nil {
			se.Err = c.failureError(fail, string(name), string(name), 0, ns, ns)
		} else {
			se.Import = e.via
			se.Target = Target{ID: e.id, Kind: w.Kind(e.id), Path: w.PathOf(e.id), Via: []string{e.via}}
			se.Public = c.globIsPublic(sc, e.via)
		}
		out = append(out, se)
	}
	return out
}

func (c *Checker) globIsPublic(sc *scope, key string) bool {
	for _, g := range sc.globs {
		if g.key == key {
			return g.imp.Public
		}
	}
	return false
}
