// SPDX-License-Identifier: MPL-2.0

// Package restaurant ships the restaurant workspace used by `modvis example`
// and a small Go rendition of its back of house.
//
// The embedded declaration file models two modules inside a restaurant crate:
// a private front of house that customers never name directly, and a back of
// house whose Breakfast struct hides its seasonal fruit. Every reference site
// carries the outcome the checker must produce, so the file doubles as a
// regression fixture.
package restaurant
