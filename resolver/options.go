package resolver

import (
	"fmt"
	"os"

	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/refurl"
)

// DefaultRecursionLimit is how many times a subtree may be re-entered along
// one resolution path before the recursion-limit handler takes over.
const DefaultRecursionLimit = 1

// Mode selects what Resolve does with references.
type Mode int

const (
	// ModeResolve inlines a copy of each referenced value.
	ModeResolve Mode = iota
	// ModeTranslate copies external values into the root document under
	// generated names and points the references at the copies.
	ModeTranslate
	// ModeNone leaves the document untouched.
	ModeNone
)

func (m Mode) String() string {
	switch m {
	case ModeResolve:
		return "resolve"
	case ModeTranslate:
		return "translate"
	case ModeNone:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Validator checks a loaded document. The validator package's backends
// satisfy it.
type Validator interface {
	Validate(doc map[string]any) error
}

// Option is a function that configures a resolver
type Option func(*config) error

// config holds configuration for a resolver
type config struct {
	base      *refurl.Locator
	mode      Mode
	scope     Scope
	scopeSet  bool
	limit     int
	handler   RecursionLimitHandler
	cache     *Cache
	fetcher   refurl.Fetcher
	container []string
	logger    Logger
	strict    bool
	validator Validator
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		mode:    ModeResolve,
		limit:   DefaultRecursionLimit,
		handler: DefaultRecursionLimitHandler,
		logger:  NopLogger{},
		strict:  true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if !cfg.scopeSet {
		cfg.scope = ResolveAll
		if cfg.mode == ModeTranslate {
			cfg.scope = ResolveExternal
		}
	}
	if cfg.cache == nil {
		cfg.cache = NewCache()
	}
	if cfg.fetcher == nil {
		f, err := refurl.NewFetcher(refurl.WithStrict(cfg.strict))
		if err != nil {
			return nil, err
		}
		cfg.fetcher = f
	}
	if cfg.base == nil {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to get working directory: %w", err)
		}
		base, err := refurl.FileLocator(wd)
		if err != nil {
			return nil, err
		}
		cfg.base = base
	}
	return cfg, nil
}

// WithBaseURL sets the location of the document being resolved. Relative
// references resolve against it. It may be a URL or a filesystem path.
// Without it the working directory is used.
func WithBaseURL(rawURL string) Option {
	return func(cfg *config) error {
		loc, err := refurl.Parse(rawURL)
		if err != nil {
			return &oaserrors.ConfigError{Option: "base_url", Value: rawURL, Cause: err}
		}
		cfg.base = loc
		return nil
	}
}

// WithBaseLocator is like WithBaseURL for an already parsed locator.
func WithBaseLocator(loc *refurl.Locator) Option {
	return func(cfg *config) error {
		cfg.base = loc
		return nil
	}
}

// WithScope sets the classes of references to resolve. The default is
// ResolveAll, or ResolveExternal when translating.
func WithScope(s Scope) Option {
	return func(cfg *config) error {
		if s == 0 {
			return &oaserrors.ConfigError{Option: "scope", Value: s, Message: "no reference class selected"}
		}
		cfg.scope = s
		cfg.scopeSet = true
		return nil
	}
}

// WithRecursionLimit sets how many times the same subtree may be entered
// along one resolution path.
func WithRecursionLimit(limit int) Option {
	return func(cfg *config) error {
		if limit < 1 {
			return &oaserrors.ConfigError{Option: "recursion_limit", Value: limit, Message: "invalid limit: must be positive"}
		}
		cfg.limit = limit
		return nil
	}
}

// WithRecursionLimitHandler sets the function that supplies a value once the
// recursion limit is reached.
func WithRecursionLimitHandler(h RecursionLimitHandler) Option {
	return func(cfg *config) error {
		if h == nil {
			return &oaserrors.ConfigError{Option: "recursion_limit_handler", Message: "handler must not be nil"}
		}
		cfg.handler = h
		return nil
	}
}

// WithCache shares a cache across resolvers. Entries are keyed by resource
// only, so resolvers sharing a cache should use the same scope.
func WithCache(c *Cache) Option {
	return func(cfg *config) error {
		cfg.cache = c
		return nil
	}
}

// WithFetcher replaces the default file and HTTP fetcher.
func WithFetcher(f refurl.Fetcher) Option {
	return func(cfg *config) error {
		cfg.fetcher = f
		return nil
	}
}

// WithMode selects resolve, translate or no resolution at all.
func WithMode(m Mode) Option {
	return func(cfg *config) error {
		switch m {
		case ModeResolve, ModeTranslate, ModeNone:
			cfg.mode = m
			return nil
		default:
			return &oaserrors.ConfigError{Option: "mode", Value: m, Message: "unknown mode"}
		}
	}
}

// WithTranslateExternal switches between ModeTranslate and ModeResolve.
func WithTranslateExternal(enabled bool) Option {
	if enabled {
		return WithMode(ModeTranslate)
	}
	return WithMode(ModeResolve)
}

// WithTranslationContainer sets the JSON pointer under which translated
// values are stored, e.g. "/components/schemas". By default this is
// /definitions for Swagger 2.0 documents and /components/schemas otherwise.
func WithTranslationContainer(pointer string) Option {
	return func(cfg *config) error {
		tokens := refurl.SplitFragment(pointer)
		if len(tokens) == 0 {
			return &oaserrors.ConfigError{Option: "translation_container", Value: pointer, Message: "must not be the document root"}
		}
		cfg.container = tokens
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			l = NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithStrict controls whether the default fetcher rejects documents with
// non-string mapping keys. It has no effect with WithFetcher.
func WithStrict(strict bool) Option {
	return func(cfg *config) error {
		cfg.strict = strict
		return nil
	}
}

// WithValidator runs v on the document after the Parse functions load and
// resolve it.
func WithValidator(v Validator) Option {
	return func(cfg *config) error {
		cfg.validator = v
		return nil
	}
}
