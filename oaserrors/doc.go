// Package oaserrors provides structured error types for the oasresolve library.
//
// Import path: github.com/erraggy/oasresolve/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [ResolutionError]: $ref resolution failures (fetch, missing fragment, recursion limit, bad syntax)
//   - [PathError]: nested get/set failures, either a type error or a lookup error
//   - [ParseError]: YAML/JSON parsing failures
//   - [ValidationError]: structural problems found by a validation backend
//   - [ResourceLimitError]: Resource exhaustion (file size)
//   - [ConfigError]: Invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrResolution]: Matches any [ResolutionError]
//   - [ErrRecursionLimit]: Matches [ResolutionError] with Kind=KindRecursion
//   - [ErrPath]: Matches any [PathError]
//   - [ErrType]: Matches [PathError] with Kind=PathKindType
//   - [ErrLookup]: Matches [PathError] with Kind=PathKindLookup
//   - [ErrParse], [ErrValidation], [ErrResourceLimit], [ErrConfig]
//
// # Usage Examples
//
// Extract error details with errors.As():
//
//	var resErr *oaserrors.ResolutionError
//	if errors.As(err, &resErr) {
//	    fmt.Printf("Failed to resolve ref: %s (%s)\n", resErr.Ref, resErr.Kind)
//	}
//
// # Error Chaining
//
// ResolutionError, ParseError and ConfigError support chaining via the Cause
// field and Unwrap(). A fetch failure keeps the underlying file system or
// network error reachable:
//
//	if errors.Is(err, os.ErrNotExist) {
//	    // The referenced file doesn't exist
//	}
package oaserrors
