// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a parent already owns a child with the same name.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidParent is returned when a declaration is added under a node that cannot own it.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrBuilderDone is returned when a Builder is used after Build.
	ErrBuilderDone = errors.New("builder already built")
)

type (
	// Builder assembles a World. The zero value is not usable; call NewBuilder.
	Builder struct {
		w *World
	}

	// DuplicateNameError reports a second declaration of the same name in one parent.
	// It wraps ErrDuplicateName for errors.Is() compatibility.
	DuplicateNameError struct {
		Parent string
		Name   Name
	}

	// InvalidParentError reports a declaration added under a node of the wrong kind.
	// It wraps ErrInvalidParent for errors.Is() compatibility.
	InvalidParentError struct {
		Parent     string
		ParentKind Kind
		Kind       Kind
	}
)

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		w: &World{
			nodes:      make([]node, 1, 64),
			crateIndex: make(map[Name]NodeID),
		},
	}
}

// AddCrate adds a new crate root. Crate roots are always public.
func (b *Builder) AddCrate(name Name) (NodeID, error) {
	if b.w == nil {
		return NoNode, ErrBuilderDone
	}
	if err := name.Validate(); err != nil {
		return NoNode, err
	}
	if _, exists := b.w.crateIndex[name]; exists {
		return NoNode, &DuplicateNameError{Name: name}
	}
	id := NodeID(len(b.w.nodes))
	b.w.nodes = append(b.w.nodes, node{
		kind:  KindNamespace,
		name:  name,
		vis:   VisPublic,
		crate: id,
		index: make(map[Name]NodeID),
	})
	b.w.crates = append(b.w.crates, id)
	b.w.crateIndex[name] = id
	return id, nil
}

// AddNamespace adds a namespace under another namespace.
func (b *Builder) AddNamespace(parent NodeID, name Name, vis Visibility) (NodeID, error) {
	return b.add(parent, KindNamespace, name, vis)
}

// AddFunction adds a free function under a namespace or an associated
// function under a structure.
func (b *Builder) AddFunction(parent NodeID, name Name, vis Visibility) (NodeID, error) {
	return b.add(parent, KindFunction, name, vis)
}

// AddStruct adds a structure under a namespace.
func (b *Builder) AddStruct(parent NodeID, name Name, vis Visibility) (NodeID, error) {
	return b.add(parent, KindStruct, name, vis)
}

// AddField adds a field to a structure.
func (b *Builder) AddField(parent NodeID, name Name, vis Visibility) (NodeID, error) {
	return b.add(parent, KindField, name, vis)
}

// AddEnum adds an enumeration under a namespace.
func (b *Builder) AddEnum(parent NodeID, name Name, vis Visibility) (NodeID, error) {
	return b.add(parent, KindEnum, name, vis)
}

// AddVariant adds a variant to an enumeration. Variants take the visibility
// of their enumeration; there is no per-variant flag.
func (b *Builder) AddVariant(parent NodeID, name Name) (NodeID, error) {
	if b.w == nil {
		return NoNode, ErrBuilderDone
	}
	return b.add(parent, KindVariant, name, b.w.Visibility(parent))
}

// Build finalizes and returns the World. The Builder must not be used afterwards.
func (b *Builder) Build() *World {
	w := b.w
	b.w = nil
	return w
}

func (b *Builder) add(parent NodeID, kind Kind, name Name, vis Visibility) (NodeID, error) {
	if b.w == nil {
		return NoNode, ErrBuilderDone
	}
	if !b.w.Contains(parent) {
		return NoNode, &InvalidParentError{Parent: fmt.Sprintf("#%d", parent), Kind: kind}
	}
	if !allowedChild(b.w.nodes[parent].kind, kind) {
		return NoNode, &InvalidParentError{
			Parent:     b.w.PathOf(parent),
			ParentKind: b.w.nodes[parent].kind,
			Kind:       kind,
		}
	}
	if err := name.Validate(); err != nil {
		return NoNode, err
	}
	p := &b.w.nodes[parent]
	if _, exists := p.index[name]; exists {
		return NoNode, &DuplicateNameError{Parent: b.w.PathOf(parent), Name: name}
	}

	id := NodeID(len(b.w.nodes))
	n := node{
		kind:   kind,
		name:   name,
		vis:    vis,
		parent: parent,
		crate:  p.crate,
		depth:  p.depth + 1,
	}
	if kind.IsContainer() {
		n.index = make(map[Name]NodeID)
	}
	p.children = append(p.children, id)
	p.index[name] = id
	// p is not used past this append; it may be invalidated by reallocation.
	b.w.nodes = append(b.w.nodes, n)
	return id, nil
}

func allowedChild(parent, child Kind) bool {
	switch parent {
	case KindNamespace:
		switch child {
		case KindNamespace, KindFunction, KindStruct, KindEnum:
			return true
		}
	case KindStruct:
		return child == KindField || child == KindFunction
	case KindEnum:
		return child == KindVariant
	}
	return false
}

// Error implements the error interface for DuplicateNameError.
func (e *DuplicateNameError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("crate %q is declared more than once", string(e.Name))
	}
	return fmt.Sprintf("%s already declares %q", e.Parent, string(e.Name))
}

// Unwrap returns ErrDuplicateName for errors.Is() compatibility.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// Error implements the error interface for InvalidParentError.
func (e *InvalidParentError) Error() string {
	if e.ParentKind == KindInvalid {
		return fmt.Sprintf("cannot add %s: parent %s does not exist", e.Kind, e.Parent)
	}
	return fmt.Sprintf("cannot add %s under %s %s", e.Kind, e.ParentKind, e.Parent)
}

// Unwrap returns ErrInvalidParent for errors.Is() compatibility.
func (e *InvalidParentError) Unwrap() error { return ErrInvalidParent }
