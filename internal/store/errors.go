package store

import "errors"

var (
	ErrCacheCorrupt = errors.New("cache file corrupt")
	ErrWrite        = errors.New("failed to write build outcome cache")
)
