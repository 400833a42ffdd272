package refurl

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/oasresolve"
	"github.com/erraggy/oasresolve/format"
	"github.com/erraggy/oasresolve/internal/fileutil"
	"github.com/erraggy/oasresolve/oaserrors"
	"golang.org/x/sync/singleflight"
)

// MaxFileSize is the default maximum size in bytes of a fetched document.
const MaxFileSize = 10 * 1024 * 1024 // 10MB

// DefaultTimeout is the timeout of the HTTP client built by NewFetcher.
const DefaultTimeout = 30 * time.Second

// Fetcher loads and parses the document a locator points into.
// Implementations return shared documents that callers must not mutate.
type Fetcher interface {
	Fetch(loc *Locator) (any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(loc *Locator) (any, error)

// Fetch calls f(loc).
func (f FetcherFunc) Fetch(loc *Locator) (any, error) { return f(loc) }

// Getter retrieves the body and Content-Type of a network URL.
type Getter func(rawURL string) ([]byte, string, error)

// Option configures a DefaultFetcher.
type Option func(*DefaultFetcher) error

// WithHTTPClient sets the client used for http and https locators.
func WithHTTPClient(client *http.Client) Option {
	return func(f *DefaultFetcher) error {
		if client == nil {
			return &oaserrors.ConfigError{Option: "http_client", Message: "client must not be nil"}
		}
		f.client = client
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification on the
// default client. It is ignored when WithHTTPClient is used.
func WithInsecureSkipVerify(skip bool) Option {
	return func(f *DefaultFetcher) error {
		f.insecure = skip
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with HTTP requests.
func WithUserAgent(ua string) Option {
	return func(f *DefaultFetcher) error {
		f.userAgent = ua
		return nil
	}
}

// WithMaxFileSize limits the size of fetched documents.
func WithMaxFileSize(n int64) Option {
	return func(f *DefaultFetcher) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "max_file_size", Value: n, Message: "must be positive"}
		}
		f.maxFileSize = n
		return nil
	}
}

// WithEncoding forces the text encoding of local files instead of detecting it.
func WithEncoding(name string) Option {
	return func(f *DefaultFetcher) error {
		f.encoding = name
		return nil
	}
}

// WithStrict rejects documents with non-string mapping keys.
func WithStrict(strict bool) Option {
	return func(f *DefaultFetcher) error {
		f.strict = strict
		return nil
	}
}

// WithGetter replaces the network getter entirely.
func WithGetter(g Getter) Option {
	return func(f *DefaultFetcher) error {
		f.getter = g
		return nil
	}
}

// WithDocumentCache sets the cache of parsed documents. Passing nil disables caching.
func WithDocumentCache(c *DocumentCache) Option {
	return func(f *DefaultFetcher) error {
		f.cache = c
		return nil
	}
}

// DefaultFetcher reads file locators from disk and http(s) locators over the
// network, parsing both with the format package.
//
// Concurrent fetches of the same resource are collapsed into one load.
type DefaultFetcher struct {
	client      *http.Client
	insecure    bool
	userAgent   string
	maxFileSize int64
	encoding    string
	strict      bool
	getter      Getter
	cache       *DocumentCache
	group       singleflight.Group
}

// NewFetcher creates a DefaultFetcher. Strict key checking is on by default.
func NewFetcher(opts ...Option) (*DefaultFetcher, error) {
	f := &DefaultFetcher{
		userAgent:   oasresolve.UserAgent(),
		maxFileSize: MaxFileSize,
		strict:      true,
		cache:       NewDocumentCache(0, 0),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: DefaultTimeout}
		if f.insecure {
			f.client.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, //nolint:gosec // User explicitly requested insecure mode
					MinVersion:         tls.VersionTLS12,
				},
			}
		}
	}
	if f.getter == nil {
		f.getter = f.httpGet
	}
	return f, nil
}

// Cache returns the document cache in use, which may be nil.
func (f *DefaultFetcher) Cache() *DocumentCache { return f.cache }

// Fetch returns the parsed document for loc's resource, loading it on a
// cache miss.
func (f *DefaultFetcher) Fetch(loc *Locator) (any, error) {
	key := f.cacheKey(loc)
	if doc, ok := f.cache.Get(key); ok {
		return doc, nil
	}
	doc, err, _ := f.group.Do(key, func() (any, error) {
		if doc, ok := f.cache.Get(key); ok {
			return doc, nil
		}
		doc, err := f.load(loc)
		if err != nil {
			return nil, err
		}
		if err := f.cache.Put(key, doc); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if err != nil {
		var resErr *oaserrors.ResolutionError
		if errors.As(err, &resErr) {
			return nil, err
		}
		return nil, &oaserrors.ResolutionError{
			Ref:     loc.Resource(),
			Kind:    oaserrors.KindFetch,
			Message: fmt.Sprintf("Cannot fetch %q", loc.Resource()),
			Cause:   err,
		}
	}
	return doc, nil
}

// cacheKey is the resource of loc. Lenient fetchers use their own keys, so
// a cache shared with a strict fetcher never serves it stringified keys.
func (f *DefaultFetcher) cacheKey(loc *Locator) string {
	if f.strict {
		return loc.Resource()
	}
	return "lenient:" + loc.Resource()
}

func (f *DefaultFetcher) load(loc *Locator) (any, error) {
	var (
		text        string
		contentType string
	)
	switch {
	case loc.IsFile():
		info, err := os.Stat(loc.FilePath())
		if err != nil {
			return nil, err
		}
		if info.Size() > f.maxFileSize {
			return nil, f.sizeError(info.Size())
		}
		text, _, err = fileutil.ReadText(loc.FilePath(), f.encoding)
		if err != nil {
			return nil, err
		}
	case loc.IsHTTP():
		data, ct, err := f.getter(loc.WithFragment("").URL())
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > f.maxFileSize {
			return nil, f.sizeError(int64(len(data)))
		}
		text, _, err = fileutil.Decode(data, charset(ct))
		if err != nil {
			return nil, err
		}
		contentType = ct
	default:
		return nil, &oaserrors.ResolutionError{
			Ref:     loc.URL(),
			Kind:    oaserrors.KindScheme,
			Message: fmt.Sprintf("Scheme %q is not recognized", loc.Scheme()),
		}
	}
	doc, _, err := format.Parse([]byte(text), loc.Path(), contentType, format.Options{Strict: f.strict})
	return doc, err
}

func (f *DefaultFetcher) sizeError(actual int64) error {
	return &oaserrors.ResourceLimitError{
		ResourceType: "file_size",
		Limit:        f.maxFileSize,
		Actual:       actual,
		Message:      "document exceeds maximum size",
	}
}

// httpGet fetches a URL and returns the bytes and Content-Type header.
func (f *DefaultFetcher) httpGet(rawURL string) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("refurl: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req) //nolint:gosec // G704 - URL comes from a document reference
	if err != nil {
		return nil, "", fmt.Errorf("refurl: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("refurl: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read one byte past the limit so oversize bodies are detectable.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("refurl: failed to read response body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func charset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
