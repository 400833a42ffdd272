package resolver

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/erraggy/oasresolve/refurl"
)

var (
	oas3Container     = []string{"components", "schemas"}
	swagger2Container = []string{"definitions"}
)

// translates reports whether a reference is copied into the root document
// rather than inlined. References within one external file are inlined
// instead when internal resolution is also requested.
func (r *Resolver) translates(base, target *refurl.Locator, class Scope) bool {
	if r.cfg.mode != ModeTranslate || class == ResolveInternal || !r.cfg.scope.Has(class) {
		return false
	}
	if target.SameResource(base) && r.cfg.scope.Has(ResolveInternal) {
		return false
	}
	return true
}

// container returns the tokens of the mapping translated values go into.
func (r *Resolver) container() []string {
	if r.cfg.container != nil {
		return r.cfg.container
	}
	if m, ok := r.doc.(map[string]any); ok {
		if _, swagger := m["swagger"]; swagger {
			return swagger2Container
		}
	}
	return oas3Container
}

// translate copies the target value into the collection of translated
// values, once per distinct target, and returns the local reference to it.
// A target that is already collected or still being collected only yields
// its reference, which is what terminates cycles between external files.
func (r *Resolver) translate(ref string, target *refurl.Locator, tokens []string) (string, error) {
	key := RecursionKey{Resource: target.Resource(), Fragment: refurl.JoinFragment(tokens)}
	if name, ok := r.translated[key]; ok {
		return r.localRef(name), nil
	}

	name := r.uniqueName(translatedName(target, tokens), key)
	r.translated[key] = name

	value, err := r.lookup(ref, target, tokens)
	if err != nil {
		return "", err
	}
	resolved, err := r.resolvePartial(target, value)
	if err != nil {
		return "", err
	}
	r.collected[name] = resolved
	r.stats.Translated++
	r.log.Debug("translated reference", "ref", ref, "name", name)
	return r.localRef(name), nil
}

func (r *Resolver) localRef(name string) string {
	tokens := append(slices.Clone(r.container()), name)
	return "#" + refurl.JoinFragment(tokens)
}

// uniqueName returns name, or name with a numeric suffix when another
// target already claimed it.
func (r *Resolver) uniqueName(name string, key RecursionKey) string {
	candidate := name
	for i := 2; ; i++ {
		owner, taken := r.owners[candidate]
		if !taken || owner == key {
			r.owners[candidate] = key
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
}

// translatedName derives the name of a translated value from the basename of
// its file and its local name, the pointer tokens below the schema container.
func translatedName(target *refurl.Locator, tokens []string) string {
	local := tokens
	switch {
	case len(local) >= 2 && local[0] == "components" && local[1] == "schemas":
		local = local[2:]
	case len(local) >= 1 && local[0] == "definitions":
		local = local[1:]
	}
	name := target.Base()
	if len(local) > 0 {
		name += "_" + strings.Join(local, "_")
	}
	return name
}

// installTranslations stores every collected value in the container of doc.
func (r *Resolver) installTranslations(doc any) (any, error) {
	container := pathaccess.FromTokens(r.container())
	for _, name := range slices.Sorted(maps.Keys(r.collected)) {
		var err error
		doc, err = pathaccess.Set(doc, container.Append(name), r.collected[name], true)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
