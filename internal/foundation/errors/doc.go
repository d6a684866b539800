// Package errors provides the classified error type used across htmlgen.
//
// A ClassifiedError carries a category (config, content, template, filesystem, ...),
// a severity and a retry strategy, plus structured context. The CLI adapter turns
// categories into process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryContent, "read content file").
//		WithContext("path", file).
//		Build()
package errors
