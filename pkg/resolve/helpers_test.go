// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"testing"

	"github.com/invowk/modvis/pkg/modtree"
)

type worldIDs map[string]modtree.NodeID

// restaurantWorld builds:
//
//	restaurant
//	├── front_of_house
//	│   ├── pub hosting
//	│   │   ├── pub fn add_to_waitlist
//	│   │   └── fn seat_at_table
//	│   └── serving
//	│       └── fn take_order
//	├── back_of_house
//	│   ├── pub struct Breakfast { pub toast, seasonal_fruit, pub fn summer }
//	│   ├── pub enum Appetizer { Soup, Salad }
//	│   ├── pub fn fix_incorrect_order
//	│   └── fn cook_order
//	├── customer
//	└── fn deliver_order
//	std
//	├── pub collections { pub struct HashMap, pub struct BTreeMap }
//	├── pub fmt { pub struct Result, pub struct Display }
//	└── pub io { pub struct Result, pub struct Write }
//	patron
func restaurantWorld(t *testing.T) (*modtree.World, worldIDs) {
	t.Helper()

	b := modtree.NewBuilder()
	ids := make(worldIDs)
	add := func(key string) func(modtree.NodeID, error) modtree.NodeID {
		return func(id modtree.NodeID, err error) modtree.NodeID {
			t.Helper()
			if err != nil {
				t.Fatalf("adding %s: %v", key, err)
			}
			ids[key] = id
			return id
		}
	}
	const (
		pub  = modtree.VisPublic
		priv = modtree.VisPrivate
	)

	root := add("restaurant")(b.AddCrate("restaurant"))
	foh := add("front_of_house")(b.AddNamespace(root, "front_of_house", priv))
	hosting := add("hosting")(b.AddNamespace(foh, "hosting", pub))
	add("add_to_waitlist")(b.AddFunction(hosting, "add_to_waitlist", pub))
	add("seat_at_table")(b.AddFunction(hosting, "seat_at_table", priv))
	serving := add("serving")(b.AddNamespace(foh, "serving", priv))
	add("take_order")(b.AddFunction(serving, "take_order", priv))

	boh := add("back_of_house")(b.AddNamespace(root, "back_of_house", priv))
	breakfast := add("Breakfast")(b.AddStruct(boh, "Breakfast", pub))
	add("toast")(b.AddField(breakfast, "toast", pub))
	add("seasonal_fruit")(b.AddField(breakfast, "seasonal_fruit", priv))
	add("summer")(b.AddFunction(breakfast, "summer", pub))
	app := add("Appetizer")(b.AddEnum(boh, "Appetizer", pub))
	add("Soup")(b.AddVariant(app, "Soup"))
	add("Salad")(b.AddVariant(app, "Salad"))
	add("fix_incorrect_order")(b.AddFunction(boh, "fix_incorrect_order", pub))
	add("cook_order")(b.AddFunction(boh, "cook_order", priv))
	add("customer")(b.AddNamespace(root, "customer", priv))
	add("deliver_order")(b.AddFunction(root, "deliver_order", priv))

	std := add("std")(b.AddCrate("std"))
	collections := add("collections")(b.AddNamespace(std, "collections", pub))
	add("HashMap")(b.AddStruct(collections, "HashMap", pub))
	add("BTreeMap")(b.AddStruct(collections, "BTreeMap", pub))
	fmtNS := add("fmt")(b.AddNamespace(std, "fmt", pub))
	add("fmt::Result")(b.AddStruct(fmtNS, "Result", pub))
	add("Display")(b.AddStruct(fmtNS, "Display", pub))
	io := add("io")(b.AddNamespace(std, "io", pub))
	add("io::Result")(b.AddStruct(io, "Result", pub))
	add("Write")(b.AddStruct(io, "Write", pub))

	add("patron")(b.AddCrate("patron"))

	return b.Build(), ids
}

// use declares an import in ns.
func use(in modtree.NodeID, path string) Import {
	return Import{In: in, Path: path}
}

func pubUse(in modtree.NodeID, path string) Import {
	return Import{In: in, Path: path, Public: true}
}

func useAs(in modtree.NodeID, path string, alias modtree.Name) Import {
	return Import{In: in, Path: path, Alias: alias}
}
