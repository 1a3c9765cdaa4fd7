// Package build runs the generator pipeline: working-directory guard, scan,
// render, then write (generate mode) or compare (check mode).
//
// Every execution path (generate, check, watch) goes through Service.Run.
// Failures come back as classified errors from internal/foundation/errors so
// the CLI can map them to exit codes.
package build
