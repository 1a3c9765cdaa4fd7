package guard

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongDirectory indicates the working directory is not the project root.
	ErrWrongDirectory = errors.New("guard: wrong working directory")

	// ErrNoProjectRoot indicates no project root could be resolved.
	ErrNoProjectRoot = errors.New("guard: project root not found")
)

// MismatchError reports the working directory and the directory the run expected.
type MismatchError struct {
	Cwd      string
	Expected string
	Source   Source
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("The current working directory is not %s.", e.Expected)
}

func (e *MismatchError) Unwrap() error { return ErrWrongDirectory }
