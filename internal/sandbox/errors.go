package sandbox

import "errors"

var (
	ErrMissingRequiredBind = errors.New("required bind path does not exist")
	ErrSandboxFailed       = errors.New("sandbox command failed")
)
