// Package errors provides classified, structured errors for the build
// pipeline.
//
// Every stage failure is represented as a ClassifiedError with a category
// (source, parse, render, hook, ...), a severity and a string-keyed context
// map. The orchestrator propagates the first failure verbatim; the CLI maps
// the category to a user-facing message and exits non-zero.
//
// Construction goes through the fluent ErrorBuilder:
//
//	return errors.ParseError(path, "missing required field: title").Build()
//
// Plain errors from the standard library are wrapped at the stage boundary:
//
//	return errors.WrapError(err, errors.CategoryFileSystem, "write page").
//		WithContext("path", outPath).Build()
package errors
