// Package errors provides the classified error primitives used across apidocgen.
//
// Every failure that leaves a run is a ClassifiedError carrying a category
// (config, precondition, filesystem, scan, render, ...), a severity and
// optional structured context. The CLI adapter turns a category into an
// exit code and a user-facing message.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryScan, "list directory failed").
//		WithContext("path", dir).
//		Build()
package errors
