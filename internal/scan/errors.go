package scan

import "errors"

// Sentinel errors for source tree scanning. Wrap them with the failing path at the call site.
var (
	// ErrListDir indicates a directory listing failed (unreadable root, permission denied, I/O error).
	ErrListDir = errors.New("scan: list directory failed")
)
