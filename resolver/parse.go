package resolver

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasresolve/format"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/refurl"
)

// Result is a loaded and, depending on the mode, resolved document.
type Result struct {
	// Document is the resulting document.
	Document map[string]any
	// Locator is where the document was loaded from.
	Locator *refurl.Locator
	// Version is the value of the top-level openapi or swagger field.
	Version string
	// Stats counts what resolution did.
	Stats Stats
}

// ParseLocation loads a document from a URL or a filesystem path.
func ParseLocation(location string, opts ...Option) (*Result, error) {
	if isURL(location) {
		return ParseURL(location, opts...)
	}
	return ParseFile(location, opts...)
}

// ParseFile loads the document at path, then resolves it according to the
// options. The path becomes the base location unless WithBaseURL is given.
func ParseFile(path string, opts ...Option) (*Result, error) {
	loc, err := refurl.FileLocator(path)
	if err != nil {
		return nil, err
	}
	return parseLocator(loc, opts)
}

// ParseURL loads the document at an http or https URL.
func ParseURL(rawURL string, opts ...Option) (*Result, error) {
	loc, err := refurl.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return parseLocator(loc, opts)
}

// ParseBytes parses data and resolves it. filename, which may be empty,
// hints at the format and is the base location for relative references.
func ParseBytes(data []byte, filename string, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	doc, _, err := format.Parse(data, filename, "", format.Options{Strict: cfg.strict})
	if err != nil {
		return nil, err
	}
	pre := shared(cfg)
	if filename != "" {
		loc, err := refurl.FileLocator(filename)
		if err != nil {
			return nil, err
		}
		pre = append(pre, WithBaseLocator(loc))
	}
	return finish(doc, append(pre, opts...))
}

func parseLocator(loc *refurl.Locator, opts []Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}
	doc, err := cfg.fetcher.Fetch(loc.WithFragment(""))
	if err != nil {
		return nil, err
	}
	// The fetched document may be shared with the cache; New copies it.
	pre := append(shared(cfg), WithBaseLocator(loc.WithFragment("")))
	return finish(doc, append(pre, opts...))
}

// shared makes the resolver reuse the fetcher and cache that loaded the root.
func shared(cfg *config) []Option {
	return []Option{WithFetcher(cfg.fetcher), WithCache(cfg.cache)}
}

func finish(doc any, opts []Option) (*Result, error) {
	r, err := New(doc, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, err
	}
	m, ok := r.Document().(map[string]any)
	if !ok {
		return nil, &oaserrors.ParseError{
			Path:    r.Locator().URL(),
			Message: fmt.Sprintf("document root must be a mapping, got %T", r.Document()),
		}
	}
	res := &Result{
		Document: m,
		Locator:  r.Locator(),
		Version:  DetectVersion(m),
		Stats:    r.Stats(),
	}
	if v := r.cfg.validator; v != nil {
		if err := v.Validate(m); err != nil {
			return res, err
		}
	}
	return res, nil
}

// DetectVersion returns the openapi or swagger version string of doc, or ""
// when neither is present.
func DetectVersion(doc map[string]any) string {
	for _, key := range []string{"openapi", "swagger"} {
		if v, ok := doc[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// isURL determines if the given path is a URL (http:// or https://)
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
