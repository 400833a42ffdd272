package refurl

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasresolve/internal/fileutil"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/pathaccess"
)

// SchemeFile is the scheme of filesystem locators.
const SchemeFile = "file"

// Locator is an absolute resource location plus an optional fragment.
type Locator struct {
	u url.URL
}

// FileLocator builds a file locator from a filesystem path. Relative paths are
// made absolute against the working directory and symlinks are dereferenced.
func FileLocator(name string) (*Locator, error) {
	canonical, err := fileutil.CanonicalFilename(name)
	if err != nil {
		return nil, fmt.Errorf("refurl: failed to make %q absolute: %w", name, err)
	}
	return &Locator{u: url.URL{Scheme: SchemeFile, Path: filepath.ToSlash(canonical)}}, nil
}

// Parse builds a locator from a URL or a filesystem path. Input without a
// scheme is treated as a file path.
func Parse(raw string) (*Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, syntaxError(raw, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "" && scheme != SchemeFile {
		u.Scheme = scheme
		return &Locator{u: *u}, nil
	}
	loc, err := FileLocator(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, err
	}
	loc.u.Fragment = u.Fragment
	return loc, nil
}

// Scheme returns the lower-case scheme.
func (l *Locator) Scheme() string { return l.u.Scheme }

// IsFile reports whether the locator names a local file.
func (l *Locator) IsFile() bool { return l.u.Scheme == SchemeFile }

// IsHTTP reports whether the locator uses http or https.
func (l *Locator) IsHTTP() bool { return l.u.Scheme == "http" || l.u.Scheme == "https" }

// Path returns the URL path, which for file locators is the slash-separated
// absolute filename.
func (l *Locator) Path() string { return l.u.Path }

// FilePath returns the path in the host's filesystem notation.
func (l *Locator) FilePath() string { return filepath.FromSlash(l.u.Path) }

// Base returns the final element of the path.
func (l *Locator) Base() string { return path.Base(l.u.Path) }

// Fragment returns the decoded fragment without the leading '#'.
func (l *Locator) Fragment() string { return l.u.Fragment }

// Resource returns the identity of the document the locator points into:
// scheme, host and path only.
func (l *Locator) Resource() string {
	u := url.URL{Scheme: l.u.Scheme, User: l.u.User, Host: l.u.Host, Path: l.u.Path}
	return u.String()
}

// URL returns the locator as a full URL string including query and fragment.
func (l *Locator) URL() string {
	u := l.u
	return u.String()
}

// String implements fmt.Stringer.
func (l *Locator) String() string { return l.URL() }

// WithFragment returns a copy of l with its fragment replaced.
func (l *Locator) WithFragment(fragment string) *Locator {
	out := &Locator{u: l.u}
	out.u.Fragment = fragment
	out.u.RawFragment = ""
	return out
}

// SameResource reports whether both locators identify the same document.
func (l *Locator) SameResource(other *Locator) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Resource() == other.Resource()
}

// Normalize resolves ref against base into an absolute locator.
//
// Non-file URLs are returned unchanged. A fragment-only reference takes its
// resource from base, which must then have a path. Absolute file paths ignore
// base. Relative paths need a file base and are resolved against its
// directory, or against base itself when it names a directory.
func Normalize(ref string, base *Locator) (*Locator, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, syntaxError(ref, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "" && scheme != SchemeFile {
		u.Scheme = scheme
		return &Locator{u: *u}, nil
	}

	if u.Path == "" && u.Opaque == "" {
		if base == nil || base.u.Path == "" {
			return nil, &oaserrors.ResolutionError{
				Ref:     ref,
				Kind:    oaserrors.KindSyntax,
				Message: "Cannot build an absolute file URL from a fragment without a reference with path!",
			}
		}
		return base.WithFragment(u.Fragment), nil
	}

	if path.IsAbs(u.Path) || filepath.IsAbs(u.Path) {
		loc, err := FileLocator(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, err
		}
		loc.u.Fragment = u.Fragment
		return loc, nil
	}

	if base == nil {
		return nil, &oaserrors.ResolutionError{
			Ref:     ref,
			Kind:    oaserrors.KindSyntax,
			Message: "Cannot build an absolute file URL from a relative path without a reference!",
		}
	}
	if !base.IsFile() {
		return nil, &oaserrors.ResolutionError{
			Ref:     ref,
			Kind:    oaserrors.KindSyntax,
			Message: "Cannot build an absolute file URL with a non-file reference!",
		}
	}
	abs, err := fileutil.AbsPath(filepath.FromSlash(u.Path), base.FilePath())
	if err != nil {
		return nil, &oaserrors.ResolutionError{Ref: ref, Kind: oaserrors.KindSyntax, Cause: err}
	}
	return &Locator{u: url.URL{Scheme: SchemeFile, Path: filepath.ToSlash(abs), Fragment: u.Fragment}}, nil
}

// SplitFragment splits a JSON pointer fragment into unescaped tokens.
// Leading empty tokens are dropped, so "", "/" and "#" all address the root.
func SplitFragment(fragment string) []string {
	fragment = strings.TrimPrefix(fragment, "#")
	parts := strings.Split(fragment, "/")
	for len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return nil
	}
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tokens[i] = pathaccess.UnescapeToken(p)
	}
	return tokens
}

// JoinFragment is the inverse of SplitFragment: it escapes tokens and joins
// them into a fragment with a leading slash.
func JoinFragment(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = pathaccess.EscapeToken(t)
	}
	return "/" + strings.Join(escaped, "/")
}

// SplitReference normalizes ref against base and splits its fragment into
// object path tokens.
func SplitReference(base *Locator, ref string) (*Locator, []string, error) {
	loc, err := Normalize(ref, base)
	if err != nil {
		return nil, nil, err
	}
	return loc, SplitFragment(loc.Fragment()), nil
}

func syntaxError(ref string, cause error) error {
	return &oaserrors.ResolutionError{
		Ref:     ref,
		Kind:    oaserrors.KindSyntax,
		Message: fmt.Sprintf("Invalid reference %q", ref),
		Cause:   cause,
	}
}
