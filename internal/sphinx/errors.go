package sphinx

import "errors"

// Sentinel errors for document generation. Callers wrap them with context.
var (
	// ErrTemplate indicates a document template could not be loaded or parsed.
	ErrTemplate = errors.New("sphinx: template error")

	// ErrRender indicates executing a template failed.
	ErrRender = errors.New("sphinx: render failed")

	// ErrOutputDir indicates the output directory could not be created.
	ErrOutputDir = errors.New("sphinx: output directory creation failed")

	// ErrWrite indicates writing a document to disk failed.
	ErrWrite = errors.New("sphinx: document write failed")

	// ErrInvalidName indicates a document name would escape the output directory.
	ErrInvalidName = errors.New("sphinx: invalid document name")
)
