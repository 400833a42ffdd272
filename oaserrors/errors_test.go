package oaserrors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionError(t *testing.T) {
	t.Run("Default message names the reference", func(t *testing.T) {
		err := &ResolutionError{Ref: "#/definitions/Pet"}
		assert.Equal(t, `Cannot resolve reference "#/definitions/Pet"!`, err.Error())
	})

	t.Run("Message and cause are joined", func(t *testing.T) {
		err := &ResolutionError{
			Ref:     "other.yaml#/X",
			Kind:    KindFragment,
			Message: `Cannot resolve reference "other.yaml#/X"`,
			Cause:   errors.New("lookup error at /X: key not found"),
		}
		assert.Equal(t, `Cannot resolve reference "other.yaml#/X": lookup error at /X: key not found`, err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		err := &ResolutionError{Kind: KindFetch, Cause: os.ErrNotExist}
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Is matches ErrResolution", func(t *testing.T) {
		err := &ResolutionError{Kind: KindFetch}
		assert.ErrorIs(t, err, ErrResolution)
		assert.NotErrorIs(t, err, ErrRecursionLimit)
	})

	t.Run("Is matches ErrRecursionLimit for recursion kind", func(t *testing.T) {
		err := &ResolutionError{Kind: KindRecursion}
		assert.ErrorIs(t, err, ErrRecursionLimit)
		assert.ErrorIs(t, err, ErrResolution)
	})

	t.Run("As extracts ResolutionError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("resolver: %w", &ResolutionError{Ref: "#/a", Kind: KindSyntax})
		var resErr *ResolutionError
		require.ErrorAs(t, wrapped, &resErr)
		assert.Equal(t, "#/a", resErr.Ref)
		assert.Equal(t, KindSyntax, resErr.Kind)
	})
}

func TestPathError(t *testing.T) {
	tests := []struct {
		name    string
		err     *PathError
		message string
		is      []error
		isNot   []error
	}{
		{
			name:    "type error",
			err:     &PathError{Path: "/a/0", Kind: PathKindType, Message: "cannot get anything from type string"},
			message: "type error at /a/0: cannot get anything from type string",
			is:      []error{ErrPath, ErrType},
			isNot:   []error{ErrLookup, ErrResolution},
		},
		{
			name:    "lookup error",
			err:     &PathError{Path: "/a/b", Kind: PathKindLookup, Message: `key "b" not found`},
			message: `lookup error at /a/b: key "b" not found`,
			is:      []error{ErrPath, ErrLookup},
			isNot:   []error{ErrType},
		},
		{
			name:    "minimal",
			err:     &PathError{},
			message: "path error",
			is:      []error{ErrPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			for _, target := range tt.is {
				assert.ErrorIs(t, tt.err, target)
			}
			for _, target := range tt.isNot {
				assert.NotErrorIs(t, tt.err, target)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}
		assert.Equal(t, "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{}
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrResolution)
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Path: "info", Field: "title", Message: "is required"}
	assert.Equal(t, "validation error at info.title: is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResourceLimitError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ResourceLimitError{ResourceType: "file_size", Limit: 10, Actual: 20, Message: "too big"}
		assert.Equal(t, "resource limit exceeded: file_size (limit: 10, actual: 20): too big", err.Error())
	})

	t.Run("Error message minimal", func(t *testing.T) {
		assert.Equal(t, "resource limit exceeded", (&ResourceLimitError{}).Error())
	})

	t.Run("Is matches ErrResourceLimit", func(t *testing.T) {
		assert.ErrorIs(t, &ResourceLimitError{}, ErrResourceLimit)
	})
}

func TestConfigError(t *testing.T) {
	cause := errors.New("must be positive")
	err := &ConfigError{Option: "recursion_limit", Value: 0, Message: "invalid limit", Cause: cause}
	assert.Equal(t, "configuration error for recursion_limit (value: 0): invalid limit: must be positive", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cause)
}
