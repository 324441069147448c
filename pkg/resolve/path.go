// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"regexp"
	"strings"

	"github.com/invowk/modvis/pkg/modtree"
)

const (
	// AnchorRelative starts at the origin's scope.
	AnchorRelative Anchor = iota
	// AnchorCrate starts at the root of the origin's crate.
	AnchorCrate
	// AnchorSelf starts at the origin namespace.
	AnchorSelf
	// AnchorSuper starts Supers levels above the origin namespace.
	AnchorSuper
)

// globSegment marks a glob import.
const globSegment = "*"

var aliasPattern = regexp.MustCompile(`^(.+?)\s+as\s+(\S+)$`)

type (
	// Anchor is where resolution of a path starts.
	Anchor uint8

	// Path is a parsed path.
	Path struct {
		Anchor Anchor
		// Supers is the number of leading super segments.
		Supers int
		// SelfPrefix is set when the supers follow a leading self
		// (self::super::a). It changes nothing but how the path is written.
		SelfPrefix bool
		// Segments are the names after the anchor.
		Segments []modtree.Name
		// Glob is set when the path ends in ::*.
		Glob bool
	}

	// UseItem is a single import produced by expanding a use tree.
	UseItem struct {
		Path  string
		Alias modtree.Name
	}
)

func (a Anchor) String() string {
	switch a {
	case AnchorCrate:
		return modtree.KeywordCrate
	case AnchorSelf:
		return modtree.KeywordSelf
	case AnchorSuper:
		return modtree.KeywordSuper
	default:
		return "relative"
	}
}

// ParsePath parses a "::"-separated path.
func ParsePath(s string) (Path, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Path{}, &InvalidPathError{Path: s, Reason: "path is empty"}
	}

	var p Path
	parts := strings.Split(raw, modtree.PathSeparator)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			return Path{}, &InvalidPathError{Path: s, Reason: "empty segment"}
		case part == modtree.KeywordCrate:
			if i != 0 {
				return Path{}, &InvalidPathError{Path: s, Reason: "crate may only start a path"}
			}
			p.Anchor = AnchorCrate
		case part == modtree.KeywordSelf:
			if i != 0 {
				return Path{}, &InvalidPathError{Path: s, Reason: "self may only start a path"}
			}
			p.Anchor = AnchorSelf
		case part == modtree.KeywordSuper:
			switch {
			case i == 0:
			case i == 1 && p.Anchor == AnchorSelf:
				p.SelfPrefix = true
			case p.Anchor == AnchorSuper && i == p.anchorLen():
			default:
				return Path{}, &InvalidPathError{Path: s, Reason: "super may only follow self or another super at the start of a path"}
			}
			p.Anchor = AnchorSuper
			p.Supers++
		case part == globSegment:
			if i == 0 || i != len(parts)-1 {
				return Path{}, &InvalidPathError{Path: s, Reason: "* may only end a path"}
			}
			p.Glob = true
		default:
			name := modtree.Name(part)
			if err := name.Validate(); err != nil {
				return Path{}, &InvalidPathError{Path: s, Reason: err.Error()}
			}
			p.Segments = append(p.Segments, name)
		}
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error. It is meant for
// constant paths in tests and examples.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path in canonical form.
func (p Path) String() string {
	parts := p.written()
	if p.Glob {
		parts = append(parts, globSegment)
	}
	return strings.Join(parts, modtree.PathSeparator)
}

// IsEmpty reports whether the path has no segments after its anchor.
func (p Path) IsEmpty() bool { return len(p.Segments) == 0 }

// Last returns the final named segment, or "" for anchor-only paths.
func (p Path) Last() modtree.Name {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// anchorLen is the number of written segments taken by the anchor.
func (p Path) anchorLen() int {
	switch p.Anchor {
	case AnchorCrate, AnchorSelf:
		return 1
	case AnchorSuper:
		if p.SelfPrefix {
			return p.Supers + 1
		}
		return p.Supers
	default:
		return 0
	}
}

// written returns the segments as they are written, anchor keywords included.
func (p Path) written() []string {
	out := make([]string, 0, p.anchorLen()+len(p.Segments))
	switch p.Anchor {
	case AnchorCrate:
		out = append(out, modtree.KeywordCrate)
	case AnchorSelf:
		out = append(out, modtree.KeywordSelf)
	case AnchorSuper:
		if p.SelfPrefix {
			out = append(out, modtree.KeywordSelf)
		}
		for range p.Supers {
			out = append(out, modtree.KeywordSuper)
		}
	}
	for _, s := range p.Segments {
		out = append(out, string(s))
	}
	return out
}

// ExpandUseTree expands a use tree with nested groups into single imports:
//
//	std::{cmp::Ordering, io}       -> std::cmp::Ordering, std::io
//	std::io::{self, Write}         -> std::io, std::io::Write
//	std::io::{Result as IoResult}  -> std::io::Result as IoResult
//
// Inside a group, self binds the group's prefix.
func ExpandUseTree(tree string) ([]UseItem, error) {
	return expandUseTree("", strings.TrimSpace(tree), tree)
}

func expandUseTree(prefix, s, orig string) ([]UseItem, error) {
	if s == "" {
		return nil, &InvalidPathError{Path: orig, Reason: "empty use tree"}
	}

	open := strings.IndexByte(s, '{')
	if open < 0 {
		if strings.ContainsAny(s, "},") {
			return nil, &InvalidPathError{Path: orig, Reason: "unbalanced braces"}
		}
		path, alias, err := splitAlias(s, orig)
		if err != nil {
			return nil, err
		}
		if path == modtree.KeywordSelf && prefix != "" {
			path = prefix
		} else {
			path = joinPath(prefix, path)
		}
		return []UseItem{{Path: path, Alias: alias}}, nil
	}

	if !strings.HasSuffix(s, "}") {
		return nil, &InvalidPathError{Path: orig, Reason: "a group must end the use tree"}
	}
	head := strings.TrimSpace(s[:open])
	if head != "" {
		if !strings.HasSuffix(head, modtree.PathSeparator) {
			return nil, &InvalidPathError{Path: orig, Reason: "a group must follow ::"}
		}
		head = strings.TrimSpace(strings.TrimSuffix(head, modtree.PathSeparator))
	}
	base := joinPath(prefix, head)

	members, err := splitGroup(s[open+1:len(s)-1], orig)
	if err != nil {
		return nil, err
	}
	var items []UseItem
	for _, m := range members {
		if base == "" && (m == modtree.KeywordSelf || strings.HasPrefix(m, modtree.KeywordSelf+" ")) {
			return nil, &InvalidPathError{Path: orig, Reason: "self in a group needs a prefix"}
		}
		sub, err := expandUseTree(base, m, orig)
		if err != nil {
			return nil, err
		}
		items = append(items, sub...)
	}
	return items, nil
}

// splitGroup splits the inside of a {...} group on top-level commas.
func splitGroup(inner, orig string) ([]string, error) {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range inner {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, &InvalidPathError{Path: orig, Reason: "unbalanced braces"}
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &InvalidPathError{Path: orig, Reason: "unbalanced braces"}
	}
	last := strings.TrimSpace(inner[start:])
	if last != "" {
		out = append(out, last)
	}
	for _, m := range out {
		if m == "" {
			return nil, &InvalidPathError{Path: orig, Reason: "empty group member"}
		}
	}
	if len(out) == 0 {
		return nil, &InvalidPathError{Path: orig, Reason: "empty group"}
	}
	return out, nil
}

func splitAlias(s, orig string) (string, modtree.Name, error) {
	m := aliasPattern.FindStringSubmatch(s)
	if m == nil {
		return strings.TrimSpace(s), "", nil
	}
	alias := modtree.Name(m[2])
	if err := alias.Validate(); err != nil {
		return "", "", &InvalidPathError{Path: orig, Reason: err.Error()}
	}
	return strings.TrimSpace(m[1]), alias, nil
}

func joinPath(prefix, rest string) string {
	switch {
	case prefix == "":
		return rest
	case rest == "":
		return prefix
	default:
		return prefix + modtree.PathSeparator + rest
	}
}
