package resolver

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
)

// Scope selects which classes of references are resolved. References of a
// class outside the scope are left in place.
type Scope uint8

const (
	// ResolveInternal resolves references into the root document itself.
	ResolveInternal Scope = 1 << iota
	// ResolveFiles resolves references into other local files.
	ResolveFiles
	// ResolveHTTP resolves http and https references.
	ResolveHTTP

	// ResolveAll resolves every reference.
	ResolveAll = ResolveInternal | ResolveFiles | ResolveHTTP
	// ResolveExternal resolves everything except references into the root document.
	ResolveExternal = ResolveFiles | ResolveHTTP
)

var scopeNames = []struct {
	scope Scope
	name  string
}{
	{ResolveInternal, "internal"},
	{ResolveFiles, "files"},
	{ResolveHTTP, "http"},
}

// Has reports whether every class in c is part of s.
func (s Scope) Has(c Scope) bool {
	return c != 0 && s&c == c
}

// String renders the scope as a "|"-joined list of class names.
func (s Scope) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, n := range scopeNames {
		if s.Has(n.scope) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseScope parses a comma or "|" separated list of class names. "all" and
// "external" are accepted as shorthands.
func ParseScope(s string) (Scope, error) {
	var out Scope
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	for _, f := range fields {
		switch f {
		case "all":
			out |= ResolveAll
		case "external":
			out |= ResolveExternal
		case "internal":
			out |= ResolveInternal
		case "files", "file":
			out |= ResolveFiles
		case "http", "https":
			out |= ResolveHTTP
		default:
			return 0, &oaserrors.ConfigError{
				Option:  "scope",
				Value:   s,
				Message: fmt.Sprintf("unknown reference class %q", f),
			}
		}
	}
	if out == 0 {
		return 0, &oaserrors.ConfigError{Option: "scope", Value: s, Message: "no reference class selected"}
	}
	return out, nil
}
