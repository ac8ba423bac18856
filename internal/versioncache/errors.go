package versioncache

import "errors"

var (
	ErrUnknownEntry = errors.New("package or manager not found in repository index")
)
