// Package pathaccess reads and writes values inside generic nested documents.
//
// A document is any tree built from map[string]any, []any and scalars, which
// is what go.yaml.in/yaml/v4 and encoding/json produce when decoding into an
// interface value. A [Path] addresses a location in such a tree: string
// elements index mappings and int elements index sequences.
//
//	v, err := pathaccess.Get(doc, pathaccess.Path{"paths", "/pets", "get"})
//
//	doc, err = pathaccess.Set(doc, pathaccess.Path{"tags", 2, "name"}, "pets", true)
//
// Set returns the (possibly reallocated) root because growing a sequence may
// need a new backing array; callers must always use the returned value.
//
// Failures are reported as [oaserrors.PathError]: a type error when the path
// walks through a scalar or indexes a sequence with a non-integer, and a lookup
// error when a key or index does not exist.
package pathaccess
