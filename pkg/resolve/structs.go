// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"strings"

	"github.com/invowk/modvis/pkg/modtree"
)

// CheckConstruct checks a structure literal written in origin that names
// fields, e.g. back_of_house::Breakfast { toast, seasonal_fruit }. The
// structure must resolve; then every named field must exist and be visible
// from origin, checked in the order given; finally every field of the
// structure must be named.
func (c *Checker) CheckConstruct(origin modtree.NodeID, structPath string, fields []string) (Target, error) {
	t, err := c.resolveStruct(origin, structPath)
	if err != nil {
		return Target{}, err
	}
	w := c.world
	raw := fmt.Sprintf("%s { %s }", structPath, strings.Join(fields, ", "))
	index := len(MustParsePath(structPath).written())

	named := make(map[modtree.NodeID]bool, len(fields))
	for _, f := range fields {
		fid, ferr := c.structField(origin, t, raw, f, index)
		if ferr != nil {
			return Target{}, ferr
		}
		if named[fid] {
			return Target{}, &InvalidPathError{Path: raw, Reason: fmt.Sprintf("field %q is named more than once", f)}
		}
		named[fid] = true
	}

	var missing []modtree.Name
	for _, child := range w.Children(t.ID) {
		if w.Kind(child) == modtree.KindField && !named[child] {
			missing = append(missing, w.Name(child))
		}
	}
	if len(missing) > 0 {
		return Target{}, &MissingFieldsError{Struct: t.Path, Fields: missing}
	}
	return t, nil
}

// CheckFieldAccess checks reading or writing field on a value of the
// structure named by structPath from origin, e.g. meal.toast.
func (c *Checker) CheckFieldAccess(origin modtree.NodeID, structPath, field string) (Target, error) {
	t, err := c.resolveStruct(origin, structPath)
	if err != nil {
		return Target{}, err
	}
	raw := structPath + "." + field
	index := len(MustParsePath(structPath).written())
	fid, err := c.structField(origin, t, raw, field, index)
	if err != nil {
		return Target{}, err
	}
	return Target{
		ID:   fid,
		Kind: modtree.KindField,
		Path: c.world.PathOf(fid),
		Via:  t.Via,
	}, nil
}

func (c *Checker) resolveStruct(origin modtree.NodeID, structPath string) (Target, error) {
	t, err := c.Resolve(origin, structPath)
	if err != nil {
		return Target{}, err
	}
	if t.Kind != modtree.KindStruct {
		return Target{}, &InvalidPathError{
			Path:   structPath,
			Reason: fmt.Sprintf("%s is a %s, not a struct", t.Path, t.Kind),
		}
	}
	return t, nil
}

func (c *Checker) structField(origin modtree.NodeID, t Target, raw, field string, index int) (modtree.NodeID, error) {
	w := c.world
	fid, ok := w.Child(t.ID, modtree.Name(field))
	if !ok || w.Kind(fid) != modtree.KindField {
		return modtree.NoNode, &PathNotFoundError{
			Path:    raw,
			Segment: field,
			Index:   index,
			Scope:   t.Path,
			Origin:  w.PathOf(origin),
			Reason:  fmt.Sprintf("struct %s has no field %q", t.Path, field),
		}
	}
	if !c.Visible(fid, origin) {
		return modtree.NoNode, &AccessDeniedError{
			Path:    raw,
			Segment: field,
			Index:   index,
			Origin:  w.PathOf(origin),
			Target:  w.PathOf(fid),
			Kind:    modtree.KindField,
			Owner:   w.PathOf(w.Owner(fid)),
		}
	}
	return fid, nil
}
