// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a check run:
//   - declaration parsing and schema validation in every format
//   - building the declaration tree and linking imports
//   - path resolution, struct literal checks and scope listing
//   - the end-to-end check pipeline
//
// To generate a PGO profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
