package pipeline

import "errors"

var (
	ErrStepFailed      = errors.New("pipeline step failed")
	ErrNoArchiveToExtract = errors.New("extract step has no preceding fetch output")
)
