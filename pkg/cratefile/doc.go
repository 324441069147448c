// SPDX-License-Identifier: MPL-2.0

// Package cratefile loads declaration files: hand-written descriptions of one
// or more crates (their namespaces, functions, structures, enumerations,
// imports) together with the reference sites to check against them.
//
// CUE is the primary format. JSON, TOML and YAML files are accepted too; they
// are decoded into generic values and validated by the same embedded CUE
// schema, so every format reports errors with the same paths.
//
//	crates: [{
//		name: "restaurant"
//		root: {
//			modules: [{
//				name: "front_of_house"
//				modules: [{name: "hosting", pub: true, functions: [{name: "add_to_waitlist", pub: true}]}]
//			}]
//			refs: [{path: "crate::front_of_house::hosting::add_to_waitlist"}]
//		}
//	}]
//
// Build turns a Workspace into a modtree.World, the import declarations for
// resolve.New and the reference sites, each with a readable location such as
// "restaurant::back_of_house#refs[0]".
package cratefile
