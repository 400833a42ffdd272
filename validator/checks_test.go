package validator

import (
	"testing"

	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/stretchr/testify/assert"
)

func TestValidatePathTemplate(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr string
	}{
		{"/pets", ""},
		{"/pets/{petId}/owners/{ownerId}", ""},
		{"/pets/{}", "empty parameter name in path template"},
		{"/pets//owners", "path contains consecutive slashes"},
		{"/pets#frag", "path contains reserved character '#'"},
		{"/pets?q=1", "path contains reserved character '?'"},
		{"/pets/{{id}}", "nested braces are not allowed at position 7"},
		{"/pets/id}", "unexpected closing brace at position 8"},
		{"/pets/{id", "unclosed brace in path template"},
		{"/pets/{ }", "empty parameter name in path template"},
		{"/pets/{id}/{id}", "duplicate parameter name 'id' in path template"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := validatePathTemplate(tt.pattern)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestExtractPathParameters(t *testing.T) {
	assert.Equal(t, map[string]bool{"petId": true, "ownerId": true},
		extractPathParameters("/pets/{petId}/owners/{ownerId}"))
	assert.Empty(t, extractPathParameters("/pets"))
}

func TestValidStatusCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"default", true},
		{"x-custom", true},
		{"1XX", true},
		{"5XX", true},
		{"0XX", false},
		{"6XX", false},
		{"2X", false},
		{"20X", false},
		{"100", true},
		{"418", true},
		{"599", true},
		{"099", false},
		{"600", false},
		{"+20", false},
		{"2000", false},
		{"abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, validStatusCode(tt.code))
		})
	}
}

func TestIsStandardStatusCode(t *testing.T) {
	assert.True(t, isStandardStatusCode("200"))
	assert.True(t, isStandardStatusCode("default"))
	assert.True(t, isStandardStatusCode("4XX"))
	assert.False(t, isStandardStatusCode("299"))
}

func TestValidMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      bool
	}{
		{"application/json", true},
		{"text/plain; charset=utf-8", true},
		{"*/*", true},
		{"application/*", true},
		{"*/json", false},
		{"/*", false},
		{"json", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.want, validMediaType(tt.mediaType))
		})
	}
}

func TestDotted(t *testing.T) {
	assert.Equal(t, "paths./pets.get.parameters[0].schema",
		dotted(pathaccess.Path{"paths", "/pets", "get", "parameters", 0, "schema"}))
	assert.Equal(t, "", dotted(nil))
	assert.Equal(t, "[1]", dotted(pathaccess.Path{1}))
}

func TestScalarAndKind(t *testing.T) {
	assert.Equal(t, "1.5", scalar(1.5))
	assert.Equal(t, "x", scalar("x"))
	assert.Equal(t, "", scalar(map[string]any{}))
	assert.Equal(t, "", scalar(nil))
	assert.Equal(t, "object", kindOf(map[string]any{}))
	assert.Equal(t, "array", kindOf([]any{}))
	assert.Equal(t, "null", kindOf(nil))
	assert.Equal(t, "number", kindOf(3))
}
