package extract

import "errors"

var ErrUnsupportedFormat = errors.New("unsupported archive format")
