package selector

import "errors"

var (
	ErrEmptySelector = errors.New("empty package selector")
	ErrNoMatch       = errors.New("no version matches selector")
)
