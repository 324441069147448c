// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/invowk/modvis/pkg/modtree"
	"github.com/invowk/modvis/pkg/resolve"
)

type (
	// Site is a reference site ready to be checked.
	Site struct {
		// Location is where the site is declared, e.g. "restaurant::back_of_house#refs[0]".
		Location string
		// Origin is the namespace the reference is written in.
		Origin modtree.NodeID
		Ref    Ref
	}

	// ImportSite is one import produced by a uses entry. Group use trees
	// produce several.
	ImportSite struct {
		Location string
		Import   resolve.Import
		Expect   Expectation
		Note     string
	}

	// Compiled is a workspace turned into a world plus the things to check in it.
	Compiled struct {
		World   *modtree.World
		Imports []ImportSite
		Sites   []Site
		// Warnings are non-fatal validation findings.
		Warnings ValidationErrors
	}

	compiler struct {
		b    *modtree.Builder
		out  *Compiled
		errs *multierror.Error
	}
)

// ResolveImports returns the imports in declaration order, for resolve.New.
func (c *Compiled) ResolveImports() []resolve.Import {
	out := make([]resolve.Import, len(c.Imports))
	for i, s := range c.Imports {
		out[i] = s.Import
	}
	return out
}

// Checker links the imports and returns a ready checker.
func (c *Compiled) Checker() *resolve.Checker {
	return resolve.New(c.World, c.ResolveImports())
}

// Build converts ws into a Compiled workspace. Every declaration problem is
// reported, not just the first; on error nothing is returned.
func Build(ws *Workspace) (*Compiled, error) {
	validation := ws.Validate()
	if validation.HasErrors() {
		return nil, validation
	}
	c := &compiler{
		b:   modtree.NewBuilder(),
		out: &Compiled{Warnings: validation.Warnings()},
	}

	for i := range ws.Crates {
		cr := &ws.Crates[i]
		root, err := c.b.AddCrate(modtree.Name(cr.Name))
		if err != nil {
			c.fail(fmt.Sprintf("crates[%d]", i), err)
			continue
		}
		c.module(root, cr.Name, &cr.Root)
	}

	if err := c.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	c.out.World = c.b.Build()
	return c.out, nil
}

func (c *compiler) fail(location string, err error) {
	c.errs = multierror.Append(c.errs, fmt.Errorf("%s: %w", location, err))
}

func (c *compiler) module(ns modtree.NodeID, path string, m *Module) {
	for i := range m.Modules {
		child := &m.Modules[i]
		childPath := path + modtree.PathSeparator + child.Name
		id, err := c.b.AddNamespace(ns, modtree.Name(child.Name), modtree.VisibilityOf(child.Pub))
		if err != nil {
			c.fail(childPath, err)
			continue
		}
		c.module(id, childPath, child)
	}

	for _, s := range m.Structs {
		structPath := path + modtree.PathSeparator + s.Name
		id, err := c.b.AddStruct(ns, modtree.Name(s.Name), modtree.VisibilityOf(s.Pub))
		if err != nil {
			c.fail(structPath, err)
			continue
		}
		for _, f := range s.Fields {
			if _, err := c.b.AddField(id, modtree.Name(f.Name), modtree.VisibilityOf(f.Pub)); err != nil {
				c.fail(structPath+"."+f.Name, err)
			}
		}
		for _, fn := range s.Methods {
			c.function(id, ns, structPath, fn)
		}
	}

	for _, e := range m.Enums {
		enumPath := path + modtree.PathSeparator + e.Name
		id, err := c.b.AddEnum(ns, modtree.Name(e.Name), modtree.VisibilityOf(e.Pub))
		if err != nil {
			c.fail(enumPath, err)
			continue
		}
		for _, v := range e.Variants {
			if _, err := c.b.AddVariant(id, modtree.Name(v)); err != nil {
				c.fail(enumPath+modtree.PathSeparator+v, err)
			}
		}
	}

	for _, fn := range m.Functions {
		c.function(ns, ns, path, fn)
	}

	for i, u := range m.Uses {
		c.use(ns, fmt.Sprintf("%s#uses[%d]", path, i), u)
	}
	c.refs(ns, path, m.Refs)
}

// function declares fn under parent. Its reference sites originate in ns.
func (c *compiler) function(parent, ns modtree.NodeID, parentPath string, fn Function) {
	fnPath := parentPath + modtree.PathSeparator + fn.Name
	if _, err := c.b.AddFunction(parent, modtree.Name(fn.Name), modtree.VisibilityOf(fn.Pub)); err != nil {
		c.fail(fnPath, err)
		return
	}
	c.refs(ns, fnPath, fn.Refs)
}

func (c *compiler) use(ns modtree.NodeID, location string, u Use) {
	items, err := resolve.ExpandUseTree(u.Path)
	if err != nil {
		c.fail(location, err)
		return
	}
	for i, item := range items {
		alias := item.Alias
		if u.As != "" {
			alias = modtree.Name(u.As)
		}
		loc := location
		if len(items) > 1 {
			loc = fmt.Sprintf("%s.%d", location, i)
		}
		c.out.Imports = append(c.out.Imports, ImportSite{
			Location: loc,
			Import: resolve.Import{
				In:     ns,
				Path:   item.Path,
				Alias:  alias,
				Public: u.Pub,
			},
			Expect: u.Expect.OrDefault(),
			Note:   u.Note,
		})
	}
}

func (c *compiler) refs(ns modtree.NodeID, owner string, refs []Ref) {
	for i, r := range refs {
		r.Expect = r.Expect.OrDefault()
		c.out.Sites = append(c.out.Sites, Site{
			Location: fmt.Sprintf("%s#refs[%d]", owner, i),
			Origin:   ns,
			Ref:      r,
		})
	}
}
