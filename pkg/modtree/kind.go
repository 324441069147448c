// SPDX-License-Identifier: MPL-2.0

package modtree

import (
	"errors"
	"fmt"
)

const (
	// KindInvalid is the zero Kind and never appears in a built World.
	KindInvalid Kind = iota
	// KindNamespace is a module: a crate root or a nested namespace.
	KindNamespace
	// KindFunction is a free function or an associated function of a structure.
	KindFunction
	// KindStruct is a structure with named fields.
	KindStruct
	// KindField is a named structure field.
	KindField
	// KindEnum is an enumeration.
	KindEnum
	// KindVariant is an enumeration variant.
	KindVariant
)

const (
	// VisPrivate limits access to the owner namespace and its descendants.
	VisPrivate Visibility = iota
	// VisPublic allows access from anywhere the owner namespace can be reached.
	VisPublic
)

// ErrInvalidVisibility is returned when a Visibility string is not recognized.
var ErrInvalidVisibility = errors.New("invalid visibility")

type (
	// Kind identifies what a node declares.
	Kind uint8

	// Visibility is the public/private flag carried by every node.
	Visibility uint8

	// InvalidVisibilityError is returned by ParseVisibility for unknown values.
	// It wraps ErrInvalidVisibility for errors.Is() compatibility.
	InvalidVisibilityError struct {
		Value string
	}
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindNamespace: "namespace",
	KindFunction:  "function",
	KindStruct:    "struct",
	KindField:     "field",
	KindEnum:      "enum",
	KindVariant:   "variant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsContainer reports whether nodes of this kind can own children and can
// therefore appear in the middle of a path.
func (k Kind) IsContainer() bool {
	switch k {
	case KindNamespace, KindStruct, KindEnum:
		return true
	default:
		return false
	}
}

func (v Visibility) String() string {
	if v == VisPublic {
		return "public"
	}
	return "private"
}

// ParseVisibility converts "public"/"pub" and "private"/"" into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "public", "pub":
		return VisPublic, nil
	case "private", "":
		return VisPrivate, nil
	default:
		return VisPrivate, &InvalidVisibilityError{Value: s}
	}
}

// VisibilityOf maps a "pub" flag to a Visibility.
func VisibilityOf(pub bool) Visibility {
	if pub {
		return VisPublic
	}
	return VisPrivate
}

// Error implements the error interface for InvalidVisibilityError.
func (e *InvalidVisibilityError) Error() string {
	return fmt.Sprintf("invalid visibility %q (expected public or private)", e.Value)
}

// Unwrap returns ErrInvalidVisibility for errors.Is() compatibility.
func (e *InvalidVisibilityError) Unwrap() error { return ErrInvalidVisibility }
