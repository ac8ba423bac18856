package export

import "errors"

var ErrNoGlobMatch = errors.New("export link pattern matched no files")
