// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	"github.com/invowk/modvis/pkg/modtree"
	"github.com/invowk/modvis/pkg/resolve"
)

func TestBuild_Kitchen(t *testing.T) {
	t.Parallel()

	compiled, err := Build(kitchenWorkspace())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	w := compiled.World

	for _, path := range []string{
		"kitchen::pantry",
		"kitchen::pantry::Jar::label",
		"kitchen::pantry::Jar::open",
		"kitchen::pantry::Spice::Pepper",
		"kitchen::cook",
	} {
		if _, ok := w.Lookup(path); !ok {
			t.Errorf("Lookup(%q) failed", path)
		}
	}
	secret, _ := w.Lookup("kitchen::pantry::Jar::secret")
	if w.Visibility(secret) != modtree.VisPrivate || w.Kind(secret) != modtree.KindField {
		t.Errorf("secret: %s %s", w.Visibility(secret), w.Kind(secret))
	}

	root, _ := w.Crate("kitchen")
	pantry, _ := w.Lookup("kitchen::pantry")
	wantImports := []ImportSite{
		{Location: "kitchen#uses[0].0", Import: resolve.Import{In: root, Path: "self::pantry::Jar"}, Expect: ExpectOK},
		{Location: "kitchen#uses[0].1", Import: resolve.Import{In: root, Path: "self::pantry::Spice::*"}, Expect: ExpectOK},
		{Location: "kitchen#uses[1]", Import: resolve.Import{In: root, Path: "self::pantry::Spice", Alias: "Seasoning", Public: true}, Expect: ExpectOK},
	}
	if diff := cmp.Diff(wantImports, compiled.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	var locations []string
	for _, s := range compiled.Sites {
		locations = append(locations, s.Location)
		wantOrigin := root
		if strings.HasPrefix(s.Location, "kitchen::pantry") {
			wantOrigin = pantry
		}
		if s.Origin != wantOrigin {
			t.Errorf("%s: origin %s, want %s", s.Location, w.PathOf(s.Origin), w.PathOf(wantOrigin))
		}
	}
	wantLocations := []string{
		"kitchen::pantry::Jar::open#refs[0]",
		"kitchen#refs[0]",
		"kitchen#refs[1]",
		"kitchen#refs[2]",
	}
	if diff := cmp.Diff(wantLocations, locations); diff != "" {
		t.Errorf("site locations mismatch (-want +got):\n%s", diff)
	}

	if err := compiled.Checker().Err(); err != nil {
		t.Errorf("imports should link: %v", err)
	}
}

func TestBuild_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	ws := &Workspace{Crates: []Crate{
		{
			Name: "a",
			Root: Module{
				Functions: []Function{{Name: "f"}, {Name: "f"}},
				Structs:   []Struct{{Name: "S", Fields: []Field{{Name: "x"}, {Name: "x"}}}},
				Uses:      []Use{{Path: "std::{io"}},
			},
		},
		{Name: "a"},
	}}

	_, err := Build(ws)
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *multierror.Error, got %v", err)
	}
	if len(merr.Errors) != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", len(merr.Errors), err)
	}
	if !errors.Is(err, modtree.ErrDuplicateName) {
		t.Error("expected ErrDuplicateName in the chain")
	}
	if !errors.Is(err, resolve.ErrInvalidPath) {
		t.Error("expected ErrInvalidPath in the chain")
	}
	for _, want := range []string{"a::f", "a::S.x", "a#uses[0]", "crates[1]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q:\n%v", want, err)
		}
	}
}

func TestBuild_RejectsInvalidWorkspace(t *testing.T) {
	t.Parallel()

	ws := &Workspace{Crates: []Crate{{
		Name: "a",
		Root: Module{Uses: []Use{{Path: "std::{io, fmt}", As: "both"}}},
	}}}
	_, err := Build(ws)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || !verrs.HasErrors() {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestBuild_Warnings(t *testing.T) {
	t.Parallel()

	ws := &Workspace{Crates: []Crate{{
		Name: "a",
		Root: Module{
			Enums: []Enum{{Name: "Empty"}},
			Refs:  []Ref{{Path: "Empty", Expect: ExpectMissingFields}},
		},
	}}}
	compiled, err := Build(ws)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(compiled.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", compiled.Warnings)
	}
	if compiled.Sites[0].Ref.Expect != ExpectMissingFields {
		t.Errorf("expectation not kept: %+v", compiled.Sites[0])
	}
}

func TestExpectation_Validate(t *testing.T) {
	t.Parallel()

	for _, e := range Expectations() {
		if err := e.Validate(); err != nil {
			t.Errorf("%s: %v", e, err)
		}
	}
	if err := Expectation("").Validate(); err != nil {
		t.Errorf("zero value should be valid: %v", err)
	}
	if Expectation("").OrDefault() != ExpectOK {
		t.Error("zero value should default to ok")
	}
	if err := Expectation("maybe").Validate(); !errors.Is(err, ErrInvalidExpectation) {
		t.Errorf("expected ErrInvalidExpectation, got %v", err)
	}
}
