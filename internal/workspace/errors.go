package workspace

import "errors"

var (
	ErrNotFound     = errors.New("workspace descriptor not found")
	ErrVariantNotFound = errors.New("variant not declared in workspace descriptor")
)
