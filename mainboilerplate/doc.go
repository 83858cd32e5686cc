// Package mainboilerplate contains shared boilerplate for this project's
// programs. The idea is to provide a selection of narrowly scoped methods so
// callers do not have to buy-in to an all-or-nothing approach.
package mainboilerplate

var (
	// Version of the program, set at build time via -ldflags.
	Version = "development"
	// BuildDate of the program, set at build time via -ldflags.
	BuildDate = "unknown"
)
