// Package devel implements "pi devel test": evaluating a single recipe
// file, building the package(s) it registers, and running their verify
// expectations, all without requiring a governing cave workspace.
package devel
