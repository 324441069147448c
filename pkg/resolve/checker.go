// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/invowk/modvis/internal/dag"
	"github.com/invowk/modvis/pkg/modtree"
)

const (
	stateUnlinked bindingState = iota
	stateLinking
	stateLinked
)

type (
	// Import is a scope import declared in a namespace.
	Import struct {
		// In is the importing namespace.
		In modtree.NodeID
		// Path is the imported path; a trailing ::* makes it a glob import.
		Path string
		// Alias renames the binding (use a::b as c). Globs cannot be renamed.
		Alias modtree.Name
		// Public re-exports the binding (pub use).
		Public bool
		// Label identifies the import in diagnostics. Optional.
		Label string
	}

	// Target is a successfully resolved declaration.
	Target struct {
		ID   modtree.NodeID
		Kind modtree.Kind
		// Path is the canonical display path of the declaration.
		Path string
		// Via lists the import bindings traversed, in order.
		Via []string
	}

	// LinkedImport is the linking outcome of one Import.
	LinkedImport struct {
		// Index is the position of the import in the slice given to New.
		Index  int
		Import Import
		// Key identifies the import in cycle reports and link order.
		Key string
		// Name is the local name bound, empty for glob imports.
		Name modtree.Name
		Glob bool
		// Target is the imported declaration, or the glob's source for glob imports.
		Target Target
		Err    error
	}

	bindingState uint8

	binding struct {
		index int
		key   string
		imp   Import
		path  Path
		name  modtree.Name
		state bindingState
		// target is the bound declaration, or the glob source container.
		target Target
		err    error
	}

	scope struct {
		explicit map[modtree.Name]*binding
		globs    []*binding
	}

	// Checker resolves paths in a world. It is immutable and safe for
	// concurrent use once New returns.
	Checker struct {
		world    *modtree.World
		bindings []*binding
		scopes   map[modtree.NodeID]*scope
		graph    *dag.Graph
		order    []*binding
		// stack holds the bindings being linked; only used inside New.
		stack []*binding
	}
)

// New links imports against world and returns a ready Checker. Imports that
// fail to link do not abort construction; they are reported by Err and
// Imports and bind nothing.
func New(world *modtree.World, imports []Import) *Checker {
	c := &Checker{
		world:  world,
		scopes: make(map[modtree.NodeID]*scope),
		graph:  dag.New(),
	}

	seenKeys := make(map[string]bool, len(imports))
	for i, imp := range imports {
		b := &binding{index: i, imp: imp}
		b.key = c.importKey(imp)
		if seenKeys[b.key] {
			b.key = fmt.Sprintf("%s #%d", b.key, i)
		}
		seenKeys[b.key] = true
		c.bindings = append(c.bindings, b)
		c.graph.AddNode(b.key)

		if err := c.register(b); err != nil {
			b.state = stateLinked
			b.err = err
		}
	}

	for _, b := range c.bindings {
		c.link(b)
	}
	c.finishLinking()
	return c
}

// World returns the world the checker resolves in.
func (c *Checker) World() *modtree.World { return c.world }

// Err returns the failures of all rejected imports, in declaration order,
// or nil when every import linked.
func (c *Checker) Err() error {
	var result *multierror.Error
	for _, b := range c.bindings {
		if b.err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", b.key, b.err))
		}
	}
	return result.ErrorOrNil()
}

// Imports returns every import with its linking outcome, in link order:
// an import appears after every import its resolution went through.
func (c *Checker) Imports() []LinkedImport {
	out := make([]LinkedImport, 0, len(c.order))
	for _, b := range c.order {
		out = append(out, LinkedImport{
			Index:  b.index,
			Import: b.imp,
			Key:    b.key,
			Name:   b.name,
			Glob:   b.path.Glob,
			Target: b.target,
			Err:    b.err,
		})
	}
	return out
}

// Visible reports whether node id may be named from namespace origin,
// considering only id's own flag: public, or private with origin inside
// the subtree of id's owner namespace.
func (c *Checker) Visible(id, origin modtree.NodeID) bool {
	if c.world.Visibility(id) == modtree.VisPublic {
		return true
	}
	return c.world.IsAncestorOrSelf(c.world.Owner(id), origin)
}

func (c *Checker) importKey(imp Import) string {
	if imp.Label != "" {
		return imp.Label
	}
	prefix := ""
	if imp.Public {
		prefix = "pub "
	}
	key := fmt.Sprintf("%s: %suse %s", c.world.PathOf(imp.In), prefix, imp.Path)
	if imp.Alias != "" {
		key += " as " + string(imp.Alias)
	}
	return key
}

func (c *Checker) scopeOf(ns modtree.NodeID) *scope {
	sc, ok := c.scopes[ns]
	if !ok {
		sc = &scope{explicit: make(map[modtree.Name]*binding)}
		c.scopes[ns] = sc
	}
	return sc
}

// register parses an import and binds its local name, rejecting collisions.
func (c *Checker) register(b *binding) error {
	imp := b.imp
	if kind := c.world.Kind(imp.In); kind != modtree.KindNamespace {
		return &InvalidOriginError{Origin: fmt.Sprintf("#%d", imp.In), Kind: kind}
	}
	p, err := ParsePath(imp.Path)
	if err != nil {
		return err
	}
	b.path = p
	sc := c.scopeOf(imp.In)

	if p.Glob {
		if imp.Alias != "" {
			return &InvalidPathError{Path: imp.Path, Reason: "a glob import cannot be renamed"}
		}
		sc.globs = append(sc.globs, b)
		return nil
	}

	name := imp.Alias
	if name == "" {
		name = p.Last()
	}
	if name == "" {
		return &InvalidPathError{Path: imp.Path, Reason: fmt.Sprintf("importing %s requires an alias", p)}
	}
	if err := name.Validate(); err != nil {
		return &InvalidPathError{Path: imp.Path, Reason: err.Error()}
	}

	scopePath := c.world.PathOf(imp.In)
	if child, ok := c.world.Child(imp.In, name); ok {
		return &NameConflictError{
			Scope:    scopePath,
			Name:     name,
			Existing: []string{fmt.Sprintf("%s %s", c.world.Kind(child), c.world.PathOf(child))},
			Incoming: imp.Path,
		}
	}
	if prev, ok := sc.explicit[name]; ok {
		return &NameConflictError{
			Scope:    scopePath,
			Name:     name,
			Existing: []string{prev.key},
			Incoming: imp.Path,
		}
	}
	b.name = name
	sc.explicit[name] = b
	return nil
}

// link resolves b once. Re-entrant calls for a binding that is still being
// linked are answered by require with an ImportCycleError.
func (c *Checker) link(b *binding) {
	if b.state != stateUnlinked {
		return
	}
	b.state = stateLinking
	c.stack = append(c.stack, b)

	target, err := c.resolve(b.imp.In, b.path, b.imp.Path, b)
	if err == nil && b.path.Glob && !c.world.Kind(target.ID).IsContainer() {
		err = &InvalidPathError{
			Path:   b.imp.Path,
			Reason: fmt.Sprintf("%s %s has no members to glob-import", target.Kind, target.Path),
		}
	}
	if err == nil && b.path.Glob && target.Kind == modtree.KindStruct {
		err = &InvalidPathError{
			Path:   b.imp.Path,
			Reason: fmt.Sprintf("struct %s cannot be glob-imported; import a namespace or an enum", target.Path),
		}
	}

	c.stack = c.stack[:len(c.stack)-1]
	b.state = stateLinked
	b.target = target
	b.err = err
}

// require makes b available to the binding currently being linked, recording
// the dependency. It returns b's linking error, if any.
func (c *Checker) require(b *binding) error {
	if len(c.stack) > 0 {
		c.graph.AddEdge(b.key, c.stack[len(c.stack)-1].key)
	}
	switch b.state {
	case stateLinking:
		return &ImportCycleError{}
	case stateUnlinked:
		c.link(b)
	}
	return b.err
}

// finishLinking computes the link order and replaces placeholder cycle errors
// with the cycle found in the dependency graph.
func (c *Checker) finishLinking() {
	byKey := make(map[string]*binding, len(c.bindings))
	for _, b := range c.bindings {
		byKey[b.key] = b
	}

	order, err := c.graph.TopologicalSort()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		for _, b := range c.bindings {
			if errors.Is(b.err, ErrImportCycle) {
				b.err = &ImportCycleError{Cycle: cycleErr.Cycle}
				b.target = Target{}
			}
		}
		c.order = c.bindings
		return
	}

	c.order = make([]*binding, 0, len(order))
	for _, key := range order {
		c.order = append(c.order, byKey[key])
	}
}
