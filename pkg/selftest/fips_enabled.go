//go:build fips
// +build fips

// Package selftest implements the FIPS 140-3 self-test pair this module
// carries regardless of which ML-KEM operations a caller exercises: a
// Power-On Self-Test (POST) run once as a self-consistency check at a
// fixed seed (no external KAT vectors), and a
// Conditional Self-Test (CST) pairwise-consistency check run on demand
// against a freshly generated key pair.
//
// This file is compiled when the "fips" build tag is specified, matching
// this codebase's fips_enabled.go/fips_disabled.go split.
package selftest

// FIPSMode reports whether the binary was built in FIPS mode. When true,
// a POST or CST failure panics instead of merely being reported.
func FIPSMode() bool { return true }
