package devel

import "github.com/pkg/errors"

// ErrNoPackagesRegistered is returned when a recipe file registers no
// packages or managers at all.
var ErrNoPackagesRegistered = errors.New("devel: recipe registers no packages")

// ErrNoPackageMatched is returned when a package name was requested but
// the recipe file does not register it.
var ErrNoPackageMatched = errors.New("devel: no registered package matches")

// ErrVerifyFailed is returned when a record's verify expectations do not
// hold against the built package.
var ErrVerifyFailed = errors.New("devel: verify failed")
