// Package guard verifies that the generator runs from the project root.
//
// The root is either an explicit project root (configuration or
// --project-root) or the nearest directory at or above the working
// directory that contains the anchor directory (docs/api). Inside a git
// worktree the anchor search stops at the worktree top level, so a
// project nested in a larger repository resolves to its own directory.
//
// Nothing is written to disk before the guard has passed.
package guard
