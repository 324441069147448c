// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/modvis/internal/issue"
	"github.com/invowk/modvis/pkg/resolve"
)

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	file := restaurantFile(t)
	tests := []struct {
		name    string
		path    string
		from    string
		want    []string
		wantErr error
	}{
		{
			name: "absolute path",
			path: "crate::front_of_house::hosting::add_to_waitlist",
			want: []string{"→ restaurant::front_of_house::hosting::add_to_waitlist (function)"},
		},
		{
			name: "through an import",
			path: "hosting::add_to_waitlist",
			want: []string{
				"restaurant::front_of_house::hosting::add_to_waitlist",
				"via restaurant: use crate::front_of_house::hosting",
			},
		},
		{
			name: "re-export from another crate",
			path: "restaurant::patio::hosting::add_to_waitlist",
			from: "patron",
			want: []string{"via restaurant::patio: pub use crate::front_of_house::hosting"},
		},
		{
			name: "enum variant",
			path: "Ordering::Less",
			want: []string{"std::cmp::Ordering::Less (variant)"},
		},
		{
			name:    "private function",
			path:    "super::hosting::seat_at_table",
			from:    "restaurant::front_of_house::serving",
			wantErr: resolve.ErrAccessDenied,
		},
		{
			name:    "past the crate root",
			path:    "super::main",
			wantErr: resolve.ErrPathNotFound,
		},
		{
			name:    "glob conflict",
			path:    "Result",
			from:    "restaurant::patio",
			wantErr: resolve.ErrNameConflict,
		},
		{
			name:    "import cycle",
			path:    "order",
			from:    "restaurant::pass",
			wantErr: resolve.ErrImportCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := []string{"resolve", file, tt.path}
			if tt.from != "" {
				args = append(args, "--from", tt.from)
			}
			stdout, _, err := runCLI(t, nil, args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				var ae *issue.ActionableError
				if !errors.As(err, &ae) || ae.Issue() == nil {
					t.Errorf("error %v has no explanation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestResolveCommand_BadOrigin(t *testing.T) {
	t.Parallel()

	file := restaurantFile(t)
	tests := []struct {
		name string
		from string
		want string
	}{
		{"unknown namespace", "restaurant::nowhere", "no such declaration"},
		{"function", "restaurant::eat_at_restaurant", "function is not a namespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runCLI(t, nil, "resolve", file, "hosting", "--from", tt.from)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestResolveCommand_ErrorFormat(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, nil, "resolve", restaurantFile(t), "restaurant::customer_order", "--from", "patron")
	if err == nil {
		t.Fatal("expected an error")
	}
	got := formatErrorForDisplay(err, false)
	for _, want := range []string{"failed to resolve restaurant::customer_order: from patron", "modvis explain access_denied"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted error missing %q:\n%s", want, got)
		}
	}
}

func TestConstructCommand(t *testing.T) {
	t.Parallel()

	file := restaurantFile(t)
	tests := []struct {
		name    string
		from    string
		fields  []string
		wantErr error
	}{
		{"inside the owner", "restaurant::back_of_house", []string{"toast", "seasonal_fruit"}, nil},
		{"private field from outside", "", []string{"toast", "seasonal_fruit"}, resolve.ErrAccessDenied},
		{"missing field", "restaurant::back_of_house", []string{"toast"}, resolve.ErrMissingFields},
		{"repeated field", "restaurant::back_of_house", []string{"toast", "toast"}, resolve.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := []string{"construct", file, "crate::back_of_house::Breakfast"}
			if tt.from != "" {
				args = append(args, "--from", tt.from)
			}
			for _, f := range tt.fields {
				args = append(args, "--field", f)
			}
			stdout, _, err := runCLI(t, nil, args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !strings.Contains(stdout, "restaurant::back_of_house::Breakfast (struct)") {
				t.Errorf("unexpected output:\n%s", stdout)
			}
		})
	}
}
