package build

import "errors"

// ErrStale marks a check-mode run whose documents are out of date.
var ErrStale = errors.New("generated documents are out of date")
