// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

func TestTreeCommand(t *testing.T) {
	t.Parallel()

	file := restaurantFile(t)
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "all crates",
			want: []string{
				"crate restaurant",
				"mod front_of_house",
				"pub mod patio",
				"fn seat_at_table",
				"pub struct Breakfast",
				"pub toast",
				"Soup",
				"crate std",
				"crate patron",
			},
			notWant: []string{"use crate::front_of_house::hosting"},
		},
		{
			name:    "single crate",
			args:    []string{"--crate", "std"},
			want:    []string{"crate std", "pub enum Ordering"},
			notWant: []string{"crate restaurant"},
		},
		{
			name: "with imports",
			args: []string{"--imports"},
			want: []string{"pub use crate::front_of_house::hosting", "use std::io::Result as IoResult", "use std::collections::*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := runCLI(t, nil, append([]string{"tree", file}, tt.args...)...)
			if err != nil {
				t.Fatalf("tree error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(stdout, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, stdout)
				}
			}
		})
	}
}

func TestTreeCommand_UnknownCrate(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, nil, "tree", restaurantFile(t), "--crate", "kitchen")
	if err == nil || !strings.Contains(err.Error(), `crate "kitchen" is not declared`) {
		t.Errorf("error = %v", err)
	}
}

func TestScopeCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, nil, "scope", restaurantFile(t), "restaurant::patio")
	if err != nil {
		t.Fatalf("scope error = %v", err)
	}
	for _, want := range []string{
		"hosting",
		"restaurant::front_of_house::hosting",
		"Write",
		"std::fmt::Display",
		"Result",
		"is ambiguous",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestScopeCommand_Empty(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "empty.cue", `crates: [{name: "empty", root: {}}]`)
	stdout, _, err := runCLI(t, nil, "scope", path, "empty")
	if err != nil {
		t.Fatalf("scope error = %v", err)
	}
	if !strings.Contains(stdout, "(no names in scope)") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestImportsCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, nil, "imports", restaurantFile(t))
	if err != nil {
		t.Fatalf("imports error = %v", err)
	}
	for _, want := range []string{
		"restaurant: use crate::front_of_house::hosting",
		"restaurant::pass: use self::ticket as order",
		"cycle",
		"conflict",
		"invalid",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}
