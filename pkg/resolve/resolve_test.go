// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/invowk/modvis/pkg/modtree"
)

func TestResolve_Declarations(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, nil)

	tests := []struct {
		name   string
		origin string
		path   string
		want   string
	}{
		{"absolute through pub chain", "restaurant", "crate::front_of_house::hosting::add_to_waitlist", "add_to_waitlist"},
		{"relative through pub chain", "restaurant", "front_of_house::hosting::add_to_waitlist", "add_to_waitlist"},
		{"self anchor", "restaurant", "self::front_of_house::hosting", "hosting"},
		{"super reaches private sibling", "back_of_house", "super::deliver_order", "deliver_order"},
		{"double super", "hosting", "super::super::deliver_order", "deliver_order"},
		{"self before super", "back_of_house", "self::super::deliver_order", "deliver_order"},
		{"private sibling namespace", "hosting", "super::serving", "serving"},
		{"own private child", "hosting", "seat_at_table", "seat_at_table"},
		{"associated function", "restaurant", "back_of_house::Breakfast::summer", "summer"},
		{"variant of pub enum", "restaurant", "crate::back_of_house::Appetizer::Soup", "Soup"},
		{"private function from owner", "back_of_house", "cook_order", "cook_order"},
		{"extern crate", "restaurant", "std::collections::HashMap", "HashMap"},
		{"extern crate from another crate", "patron", "std::io::Write", "Write"},
		{"crate root by name", "patron", "restaurant", "restaurant"},
		{"crate anchor alone", "hosting", "crate", "restaurant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := c.Resolve(ids[tt.origin], tt.path)
			if err != nil {
				t.Fatalf("Resolve(%s, %q) error: %v", tt.origin, tt.path, err)
			}
			if got.ID != ids[tt.want] {
				t.Errorf("Resolve(%s, %q) = %s, want %s", tt.origin, tt.path, got.Path, w.PathOf(ids[tt.want]))
			}
			if got.Kind != w.Kind(ids[tt.want]) {
				t.Errorf("Kind = %s, want %s", got.Kind, w.Kind(ids[tt.want]))
			}
			if len(got.Via) != 0 {
				t.Errorf("Via = %v, want none without imports", got.Via)
			}
		})
	}
}

func TestResolve_AccessDenied(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, nil)

	tests := []struct {
		name    string
		origin  string
		path    string
		segment string
		index   int
		target  string
		owner   string
	}{
		{
			name: "private function in pub namespace", origin: "restaurant",
			path: "crate::front_of_house::hosting::seat_at_table", segment: "seat_at_table", index: 3,
			target: "seat_at_table", owner: "hosting",
		},
		{
			name: "private namespace from another crate", origin: "patron",
			path: "restaurant::front_of_house::hosting::add_to_waitlist", segment: "front_of_house", index: 1,
			target: "front_of_house", owner: "restaurant",
		},
		{
			name: "private child of private sibling", origin: "hosting",
			path: "super::serving::take_order", segment: "take_order", index: 2,
			target: "take_order", owner: "serving",
		},
		{
			name: "private function from the parent", origin: "restaurant",
			path: "back_of_house::cook_order", segment: "cook_order", index: 1,
			target: "cook_order", owner: "back_of_house",
		},
		{
			name: "private field through path", origin: "restaurant",
			path: "back_of_house::Breakfast::seasonal_fruit", segment: "seasonal_fruit", index: 2,
			target: "seasonal_fruit", owner: "back_of_house",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Resolve(ids[tt.origin], tt.path)
			if !errors.Is(err, ErrAccessDenied) {
				t.Fatalf("expected ErrAccessDenied, got %v", err)
			}
			var denied *AccessDeniedError
			if !errors.As(err, &denied) {
				t.Fatalf("expected *AccessDeniedError, got %T", err)
			}
			if denied.Segment != tt.segment || denied.Index != tt.index {
				t.Errorf("segment = %q@%d, want %q@%d", denied.Segment, denied.Index, tt.segment, tt.index)
			}
			if denied.Target != w.PathOf(ids[tt.target]) {
				t.Errorf("Target = %q, want %q", denied.Target, w.PathOf(ids[tt.target]))
			}
			if denied.Owner != w.PathOf(ids[tt.owner]) {
				t.Errorf("Owner = %q, want %q", denied.Owner, w.PathOf(ids[tt.owner]))
			}
			if denied.Import {
				t.Error("Import should be false for declarations")
			}
		})
	}
}

func TestResolve_Failures(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, nil)

	tests := []struct {
		name    string
		origin  modtree.NodeID
		path    string
		want    error
		segment string
	}{
		{"unknown name", ids["restaurant"], "crate::nope", ErrPathNotFound, "nope"},
		{"unknown first segment", ids["customer"], "front_of_house", ErrPathNotFound, "front_of_house"},
		{"super above crate root", ids["restaurant"], "super::deliver_order", ErrPathNotFound, "super"},
		{"self super above crate root", ids["restaurant"], "self::super::deliver_order", ErrPathNotFound, "super"},
		{"member of a function", ids["restaurant"], "crate::deliver_order::x", ErrPathNotFound, "x"},
		{"member of a variant", ids["restaurant"], "back_of_house::Appetizer::Soup::x", ErrPathNotFound, "x"},
		{"malformed", ids["restaurant"], "a::::b", ErrInvalidPath, ""},
		{"keyword in the middle", ids["restaurant"], "a::self", ErrInvalidPath, ""},
		{"glob outside an import", ids["restaurant"], "std::collections::*", ErrInvalidPath, ""},
		{"function origin", ids["deliver_order"], "crate", ErrInvalidOrigin, ""},
		{"unknown origin", modtree.NodeID(9999), "crate", ErrInvalidOrigin, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Resolve(tt.origin, tt.path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.segment == "" {
				return
			}
			var notFound *PathNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected *PathNotFoundError, got %T", err)
			}
			if notFound.Segment != tt.segment {
				t.Errorf("Segment = %q, want %q", notFound.Segment, tt.segment)
			}
		})
	}
}

func TestResolve_ErrorMessages(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, nil)

	_, err := c.Resolve(ids["restaurant"], "crate::front_of_house::hosting::seat_at_table")
	want := `cannot resolve "crate::front_of_house::hosting::seat_at_table" from restaurant: ` +
		`function restaurant::front_of_house::hosting::seat_at_table is private to restaurant::front_of_house::hosting`
	if err == nil || err.Error() != want {
		t.Errorf("error = %v\nwant    %s", err, want)
	}

	_, err = c.Resolve(ids["restaurant"], "super")
	if err == nil || !strings.Contains(err.Error(), "crate root and has no parent") {
		t.Errorf("unexpected super error: %v", err)
	}

	_, err = c.Resolve(ids["restaurant"], "self::super::deliver_order")
	var notFound *PathNotFoundError
	if !errors.As(err, &notFound) || notFound.Index != 1 {
		t.Errorf("self::super error = %v, want segment index 1", err)
	}
}

// A declaration resolves by its full path from a namespace exactly when it
// and every declaration above it are visible from that namespace.
func TestResolve_VisibilityMatchesAncestry(t *testing.T) {
	t.Parallel()

	w, _ := restaurantWorld(t)
	c := New(w, nil)

	var namespaces, all []modtree.NodeID
	for _, root := range w.Crates() {
		w.Walk(root, func(id modtree.NodeID, _ int) bool {
			all = append(all, id)
			if w.Kind(id) == modtree.KindNamespace {
				namespaces = append(namespaces, id)
			}
			return true
		})
	}

	for _, origin := range namespaces {
		for _, id := range all {
			wantOK := true
			for n := id; !w.IsRoot(n); n = w.Parent(n) {
				if !c.Visible(n, origin) {
					wantOK = false
				}
			}
			got, err := c.Resolve(origin, w.PathOf(id))
			switch {
			case wantOK && err != nil:
				t.Errorf("%s from %s: unexpected error %v", w.PathOf(id), w.PathOf(origin), err)
			case wantOK && got.ID != id:
				t.Errorf("%s from %s: resolved to %s", w.PathOf(id), w.PathOf(origin), got.Path)
			case !wantOK && !errors.Is(err, ErrAccessDenied):
				t.Errorf("%s from %s: expected ErrAccessDenied, got %v", w.PathOf(id), w.PathOf(origin), err)
			}
		}
	}
}

func TestVisible(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, nil)

	tests := []struct {
		node, origin string
		want         bool
	}{
		{"add_to_waitlist", "patron", true},
		{"front_of_house", "restaurant", true},
		{"front_of_house", "customer", true},
		{"front_of_house", "patron", false},
		{"seat_at_table", "hosting", true},
		{"seat_at_table", "front_of_house", false},
		{"seasonal_fruit", "back_of_house", true},
		{"seasonal_fruit", "restaurant", false},
		{"Soup", "patron", true},
		{"restaurant", "patron", true},
	}
	for _, tt := range tests {
		if got := c.Visible(ids[tt.node], ids[tt.origin]); got != tt.want {
			t.Errorf("Visible(%s, %s) = %v, want %v", tt.node, tt.origin, got, tt.want)
		}
	}
}

func TestChecker_ConcurrentResolve(t *testing.T) {
	t.Parallel()

	w, ids := restaurantWorld(t)
	c := New(w, []Import{
		use(ids["restaurant"], "crate::front_of_house::hosting"),
		use(ids["restaurant"], "std::collections::*"),
	})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range []string{"hosting::add_to_waitlist", "HashMap", "crate::back_of_house::Appetizer::Salad"} {
				if _, err := c.Resolve(ids["restaurant"], p); err != nil {
					errs <- err
				}
			}
			if len(c.Scope(ids["restaurant"])) == 0 {
				errs <- errors.New("empty scope")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
