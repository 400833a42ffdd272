package resolver

import (
	"iter"
	"maps"
	"slices"

	"github.com/erraggy/oasresolve/pathaccess"
)

// RefKey is the reserved mapping key that marks a reference.
const RefKey = "$ref"

// Reference is a $ref found in a document.
type Reference struct {
	// Ref is the raw reference string.
	Ref string
	// Path locates the mapping holding the $ref, relative to the scanned value.
	Path pathaccess.Path
}

// Scan walks doc depth-first and yields every reference in it. Mapping keys
// are visited in lexical order. A mapping with a string $ref is yielded and
// not descended into. A non-string $ref is an ordinary key.
//
// The document must not be mutated while the sequence is being consumed.
func Scan(doc any) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		scan(doc, nil, yield)
	}
}

func scan(v any, path pathaccess.Path, yield func(Reference) bool) bool {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t[RefKey].(string); ok {
			return yield(Reference{Ref: ref, Path: path.Append()})
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if !scan(t[k], path.Append(k), yield) {
				return false
			}
		}
	case []any:
		for i, item := range t {
			if !scan(item, path.Append(i), yield) {
				return false
			}
		}
	}
	return true
}
