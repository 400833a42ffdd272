package resolver

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/erraggy/oasresolve/refurl"
)

// Status is the lifecycle state of a Resolver.
type Status int

const (
	// Unresolved means Resolve has not run or the last run failed.
	Unresolved Status = iota
	// Resolving means Resolve is running.
	Resolving
	// Resolved means the document holds the final result.
	Resolved
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Stats counts what a Resolve call did.
type Stats struct {
	// References is the number of $ref occurrences examined, nested ones included.
	References int
	// Inlined is the number of references replaced by a copy of their target.
	Inlined int
	// Skipped is the number of references left in place because their class
	// is outside the scope.
	Skipped int
	// Translated is the number of distinct external values copied into the
	// root document in translate mode.
	Translated int
	// LimitReached is the number of times the recursion-limit handler ran.
	LimitReached int
}

// change is a pending substitution at path, relative to the partial
// document it was found in.
type change struct {
	path  pathaccess.Path
	value any
}

// Resolver dereferences the references of one document.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	cfg     *config
	log     Logger
	doc     any
	root    *refurl.Locator
	status  Status
	tracker *Tracker
	stats   Stats

	// translate mode bookkeeping
	translated map[RecursionKey]string
	owners     map[string]RecursionKey
	collected  map[string]any
}

// New creates a resolver for doc. The document is copied; the input is
// never modified.
func New(doc any, opts ...Option) (*Resolver, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	return &Resolver{
		cfg:     cfg,
		log:     cfg.logger.With("root", cfg.base.Resource()),
		doc:     deepCopy(doc),
		root:    cfg.base,
		tracker: NewTracker(),
	}, nil
}

// Document returns the current document: the input before Resolve, the
// result after it.
func (r *Resolver) Document() any { return r.doc }

// Locator returns the location of the root document.
func (r *Resolver) Locator() *refurl.Locator { return r.root }

// Status returns the lifecycle state.
func (r *Resolver) Status() Status { return r.status }

// Stats returns the counters of the last Resolve call.
func (r *Resolver) Stats() Stats { return r.stats }

// Resolve dereferences the document. It is a no-op once resolved, and also
// while already resolving, which happens when a recursion-limit handler or a
// resolver sharing the cache reaches back into this one.
//
// On failure the document is left as it was and the resolver may be retried.
func (r *Resolver) Resolve() error {
	if r.status != Unresolved {
		return nil
	}
	if r.cfg.mode == ModeNone {
		r.status = Resolved
		return nil
	}
	r.status = Resolving
	r.stats = Stats{}
	r.translated = make(map[RecursionKey]string)
	r.owners = make(map[string]RecursionKey)
	r.collected = make(map[string]any)

	resource := r.root.Resource()
	prev := r.cfg.cache.begin(resource, r)

	doc, err := r.run()
	if err != nil {
		r.status = Unresolved
		r.cfg.cache.abort(resource, prev)
		r.log.Debug("resolution failed", "error", err)
		return err
	}

	r.doc = doc
	r.status = Resolved
	r.cfg.cache.finish(resource, doc)
	r.log.Info("resolution complete",
		"mode", r.cfg.mode.String(),
		"scope", r.cfg.scope.String(),
		"references", r.stats.References,
		"inlined", r.stats.Inlined,
		"skipped", r.stats.Skipped,
		"translated", r.stats.Translated)
	return nil
}

func (r *Resolver) run() (any, error) {
	changes, err := r.resolveSubtree(r.root, r.doc, nil)
	if err != nil {
		return nil, err
	}
	// Work on a copy so a failure below leaves r.doc untouched.
	doc, err := applyChanges(deepCopy(r.doc), changes)
	if err != nil {
		return nil, err
	}
	if r.cfg.mode == ModeTranslate {
		return r.installTranslations(doc)
	}
	return doc, nil
}

// resolveSubtree collects the substitutions for every reference in partial.
// base is the location partial was loaded from and prefix is prepended to
// every recorded path.
func (r *Resolver) resolveSubtree(base *refurl.Locator, partial any, prefix pathaccess.Path) ([]change, error) {
	refs := slices.Collect(Scan(partial))
	changes := make([]change, 0, len(refs))
	for _, item := range refs {
		r.stats.References++
		r.log.Debug("reference found", "ref", item.Ref, "path", item.Path.String(), "base", base.Resource())
		c, ok, err := r.dereference(base, item.Ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		changes = append(changes, change{
			path:  prefix.Append(item.Path...).Append(c.path...),
			value: c.value,
		})
	}
	return changes, nil
}

// resolvePartial resolves partial, which was loaded from base, and returns
// the result.
func (r *Resolver) resolvePartial(base *refurl.Locator, partial any) (any, error) {
	changes, err := r.resolveSubtree(base, partial, nil)
	if err != nil {
		return nil, err
	}
	return applyChanges(partial, changes)
}

// dereference produces the substitution for one reference found in a
// document loaded from base. The change path is relative to the mapping
// holding the $ref. ok is false when the reference stays as it is.
func (r *Resolver) dereference(base *refurl.Locator, ref string) (change, bool, error) {
	target, tokens, err := refurl.SplitReference(base, ref)
	if err != nil {
		return change{}, false, err
	}
	class, err := r.classify(target)
	if err != nil {
		return change{}, false, err
	}

	if r.translates(base, target, class) {
		local, err := r.translate(ref, target, tokens)
		if err != nil {
			return change{}, false, err
		}
		return change{path: pathaccess.Path{RefKey}, value: local}, true, nil
	}

	if !r.cfg.scope.Has(class) {
		r.stats.Skipped++
		return r.rewriteSkipped(base, ref, target)
	}

	key := RecursionKey{Resource: target.Resource(), Fragment: refurl.JoinFragment(tokens)}
	if r.tracker.Count(key) >= r.cfg.limit {
		r.stats.LimitReached++
		r.log.Warn("recursion limit reached", "ref", ref, "limit", r.cfg.limit, "depth", r.tracker.Depth())
		stack := append(r.tracker.Stack(), key)
		value, err := r.cfg.handler(r.cfg.limit, target.URL(), stack)
		if err != nil {
			return change{}, false, err
		}
		return change{value: deepCopy(value)}, true, nil
	}

	value, err := r.lookup(ref, target, tokens)
	if err != nil {
		return change{}, false, err
	}

	r.tracker.Enter(key)
	resolved, err := r.resolvePartial(target, value)
	r.tracker.Leave(key)
	if err != nil {
		return change{}, false, err
	}
	r.stats.Inlined++
	return change{value: resolved}, true, nil
}

// classify sorts a target into the internal, files or http class. Internal
// means the root document, wherever the reference was found.
func (r *Resolver) classify(target *refurl.Locator) (Scope, error) {
	switch {
	case target.SameResource(r.root):
		return ResolveInternal, nil
	case target.IsHTTP():
		return ResolveHTTP, nil
	case target.IsFile():
		return ResolveFiles, nil
	default:
		return 0, &oaserrors.ResolutionError{
			Ref:     target.URL(),
			Kind:    oaserrors.KindScheme,
			Message: fmt.Sprintf("Scheme %q is not recognized", target.Scheme()),
		}
	}
}

// rewriteSkipped keeps a skipped reference valid once its surrounding value
// has been copied into the root document: references into the root become
// fragment-only, other references become absolute.
func (r *Resolver) rewriteSkipped(base *refurl.Locator, ref string, target *refurl.Locator) (change, bool, error) {
	if base.SameResource(r.root) {
		return change{}, false, nil
	}
	rewritten := target.URL()
	if target.SameResource(r.root) {
		rewritten = "#" + target.Fragment()
	}
	if rewritten == ref {
		return change{}, false, nil
	}
	r.log.Debug("reference rewritten", "ref", ref, "to", rewritten)
	return change{path: pathaccess.Path{RefKey}, value: rewritten}, true, nil
}

// lookup fetches target and returns a private copy of the value at tokens.
func (r *Resolver) lookup(ref string, target *refurl.Locator, tokens []string) (any, error) {
	doc, err := r.fetch(target)
	if err != nil {
		return nil, err
	}
	value, err := pathaccess.GetPointer(doc, tokens)
	if err != nil {
		return nil, &oaserrors.ResolutionError{
			Ref:     ref,
			Kind:    oaserrors.KindFragment,
			Message: fmt.Sprintf("Cannot resolve reference %q", ref),
			Cause:   err,
		}
	}
	return deepCopy(value), nil
}

func (r *Resolver) fetch(target *refurl.Locator) (any, error) {
	if target.SameResource(r.root) {
		return r.doc, nil
	}
	resource := target.Resource()
	if doc, ok := r.cfg.cache.Document(resource); ok {
		r.log.Debug("fetch", "locator", resource, "cache", "hit")
		return doc, nil
	}
	r.log.Debug("fetch", "locator", resource, "cache", "miss")
	doc, err := r.cfg.fetcher.Fetch(target)
	if err != nil {
		return nil, err
	}
	r.cfg.cache.storeFetched(resource, doc)
	return doc, nil
}

// applyChanges writes substitutions into doc, shallowest path first. An
// empty path replaces doc entirely.
func applyChanges(doc any, changes []change) (any, error) {
	slices.SortStableFunc(changes, func(a, b change) int {
		return cmp.Compare(len(a.path), len(b.path))
	})
	for _, c := range changes {
		if len(c.path) == 0 {
			return c.value, nil
		}
		var err error
		doc, err = pathaccess.Set(doc, c.path, c.value, true)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}
