//go:build !fips
// +build !fips

package selftest

// FIPSMode reports whether the binary was built in FIPS mode. When false,
// a POST or CST failure is reported through its Result rather than
// panicking.
func FIPSMode() bool { return false }
