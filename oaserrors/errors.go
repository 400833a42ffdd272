package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrResolution indicates a reference resolution failure.
	ErrResolution = errors.New("resolution error")

	// ErrRecursionLimit indicates the recursion limit was reached and the
	// default handler refused to continue.
	ErrRecursionLimit = errors.New("recursion limit reached")

	// ErrPath indicates a nested path access failure of any kind.
	ErrPath = errors.New("path error")

	// ErrType indicates a path walked through a scalar, used a non-integer
	// index on a sequence, or tried to mutate an unsupported container.
	ErrType = errors.New("type error")

	// ErrLookup indicates a missing key or index.
	ErrLookup = errors.New("lookup error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates a structural validation failure.
	ErrValidation = errors.New("validation error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ResolutionKind classifies why a reference could not be resolved.
type ResolutionKind string

const (
	// KindFetch means the target resource could not be read or parsed.
	KindFetch ResolutionKind = "fetch"
	// KindFragment means the fragment does not exist in the target document.
	KindFragment ResolutionKind = "fragment"
	// KindRecursion means the recursion limit was reached.
	KindRecursion ResolutionKind = "recursion"
	// KindSyntax means the reference could not be normalized into a locator.
	KindSyntax ResolutionKind = "syntax"
	// KindScheme means the reference uses a scheme that cannot be fetched.
	KindScheme ResolutionKind = "scheme"
)

// ResolutionError represents a failure to resolve a $ref.
type ResolutionError struct {
	// Ref is the reference string or resource locator that failed
	Ref string
	// Kind classifies the failure
	Kind ResolutionKind
	// Message is the human-readable description; it always names Ref
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("Cannot resolve reference %q!", e.Ref)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolution, and ErrRecursionLimit for recursion failures.
func (e *ResolutionError) Is(target error) bool {
	if target == ErrResolution {
		return true
	}
	return target == ErrRecursionLimit && e.Kind == KindRecursion
}

// PathErrorKind distinguishes type errors from lookup errors.
type PathErrorKind string

const (
	// PathKindType is a caller error: wrong container type for the path element.
	PathKindType PathErrorKind = "type"
	// PathKindLookup is a missing key or index.
	PathKindLookup PathErrorKind = "lookup"
)

// PathError represents a failure to get or set a value at a nested path.
type PathError struct {
	// Path is the JSON-pointer rendering of the path that was being accessed
	Path string
	// Kind is PathKindType or PathKindLookup
	Kind PathErrorKind
	// Message describes the failure
	Message string
}

// Error returns a human-readable error message.
func (e *PathError) Error() string {
	msg := string(e.Kind) + " error"
	if e.Kind == "" {
		msg = "path error"
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PathError) Is(target error) bool {
	switch target {
	case ErrPath:
		return true
	case ErrType:
		return e.Kind == PathKindType
	case ErrLookup:
		return e.Kind == PathKindLookup
	}
	return false
}

// ParseError represents a failure to parse a document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError represents a structural problem reported by a validation backend.
type ValidationError struct {
	// Path is the JSON path to the problematic field (e.g., "paths./pets.get.responses")
	Path string
	// Field is the specific field name with the issue
	Field string
	// Message describes the validation failure
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded, e.g. "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
