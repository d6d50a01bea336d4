// Package errors provides the classified error primitives used across ndocs.
//
// A ClassifiedError carries a category, a severity and structured context. The
// category drives the process exit code chosen by CLIErrorAdapter:
//
//	err := errors.NewError(errors.CategoryFileSystem, "cannot open source document").
//		WithContext("path", path).
//		WithCause(openErr).
//		Build()
package errors
