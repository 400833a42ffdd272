package pathaccess

import (
	"fmt"
	"strconv"

	"github.com/erraggy/oasresolve/oaserrors"
)

// Get returns the value at path inside root.
// An empty path returns root itself.
func Get(root any, path Path) (any, error) {
	return get(root, path, 0, nil, false)
}

// GetDefault is like Get, but returns def when the value found at path is
// empty: nil, false, zero numbers, "" and empty mappings or sequences.
// Missing keys are still a lookup error.
func GetDefault(root any, path Path, def any) (any, error) {
	return get(root, path, 0, def, true)
}

func get(obj any, path Path, depth int, def any, hasDef bool) (any, error) {
	if depth == len(path) {
		if hasDef && isEmpty(obj) {
			return def, nil
		}
		return obj, nil
	}
	at := path[:depth+1]
	switch v := obj.(type) {
	case map[string]any:
		key := toString(path[depth])
		child, ok := v[key]
		if !ok {
			return nil, lookupError(at, fmt.Sprintf("key %q not found", key))
		}
		return get(child, path, depth+1, def, hasDef)
	case []any:
		idx, ok := path[depth].(int)
		if !ok {
			return nil, typeError(at, fmt.Sprintf("sequences need integer indices only, got %T", path[depth]))
		}
		if idx < 0 || idx >= len(v) {
			return nil, lookupError(at, fmt.Sprintf("index %d out of range (length %d)", idx, len(v)))
		}
		return get(v[idx], path, depth+1, def, hasDef)
	default:
		return nil, typeError(at, fmt.Sprintf("cannot get anything from type %T", obj))
	}
}

// GetPointer follows unescaped JSON pointer tokens from root. Mapping
// tokens are used as keys; on sequences a token must be a decimal index.
func GetPointer(root any, tokens []string) (any, error) {
	current := root
	for i, tok := range tokens {
		at := FromTokens(tokens[:i+1])
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, lookupError(at, fmt.Sprintf("key %q not found", tok))
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return nil, typeError(at, fmt.Sprintf("invalid array index %q", tok))
			}
			if idx < 0 || idx >= len(v) {
				return nil, lookupError(at, fmt.Sprintf("index %d out of range (length %d)", idx, len(v)))
			}
			current = v[idx]
		default:
			return nil, typeError(at, fmt.Sprintf("cannot get anything from type %T", current))
		}
	}
	return current, nil
}

// Set stores value at path inside root and returns the updated root.
//
// Without create, every element of path must already exist. With create,
// missing intermediate containers are made: a sequence when the following
// element is an int, a mapping otherwise. Sequences grow by padding with nil.
//
// Mapping levels are updated in place; sequence levels may be reallocated,
// which is why the result must replace root.
func Set(root any, path Path, value any, create bool) (any, error) {
	if len(path) == 0 {
		return root, lookupError(path, "cannot set a value with an empty path")
	}
	return set(root, path, 0, value, create)
}

func set(obj any, path Path, depth int, value any, create bool) (any, error) {
	at := path[:depth+1]
	last := depth == len(path)-1
	switch v := obj.(type) {
	case map[string]any:
		if v == nil {
			return obj, typeError(at, "cannot set anything on a nil mapping")
		}
		key := toString(path[depth])
		if last {
			if _, ok := v[key]; !ok && !create {
				return v, lookupError(at, fmt.Sprintf("key %q not in mapping", key))
			}
			v[key] = value
			return v, nil
		}
		child, ok := v[key]
		if !ok {
			if !create {
				return v, lookupError(at, fmt.Sprintf("key %q not found", key))
			}
			child = newContainer(path[depth+1])
		}
		updated, err := set(child, path, depth+1, value, create)
		if err != nil {
			return v, err
		}
		v[key] = updated
		return v, nil
	case []any:
		idx, ok := path[depth].(int)
		if !ok {
			return v, typeError(at, fmt.Sprintf("sequences need integer indices only, got %T", path[depth]))
		}
		if idx < 0 {
			return v, lookupError(at, fmt.Sprintf("negative index %d", idx))
		}
		if create {
			var next any
			if !last {
				next = path[depth+1]
			}
			v = fillSequence(v, idx, next, !last)
		}
		if idx >= len(v) {
			return v, lookupError(at, fmt.Sprintf("index %d out of range (length %d)", idx, len(v)))
		}
		if last {
			v[idx] = value
			return v, nil
		}
		updated, err := set(v[idx], path, depth+1, value, create)
		if err != nil {
			return v, err
		}
		v[idx] = updated
		return v, nil
	default:
		return obj, typeError(at, fmt.Sprintf("cannot set anything on type %T", obj))
	}
}

// fillSequence grows seq so that index is addressable. The appended slot at
// index holds the container the next path element needs, or nil at the end.
func fillSequence(seq []any, index int, next any, hasNext bool) []any {
	if index < len(seq) {
		return seq
	}
	for len(seq) < index {
		seq = append(seq, nil)
	}
	if !hasNext {
		return append(seq, nil)
	}
	return append(seq, newContainer(next))
}

func newContainer(next any) any {
	if _, ok := next.(int); ok {
		return []any{}
	}
	return map[string]any{}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int:
		return t == 0
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func typeError(at Path, msg string) error {
	return &oaserrors.PathError{Path: at.String(), Kind: oaserrors.PathKindType, Message: msg}
}

func lookupError(at Path, msg string) error {
	return &oaserrors.PathError{Path: at.String(), Kind: oaserrors.PathKindLookup, Message: msg}
}
