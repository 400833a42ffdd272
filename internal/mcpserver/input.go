package mcpserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erraggy/oasresolve/refurl"
	"github.com/erraggy/oasresolve/resolver"
)

// specInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File       string `json:"file,omitempty"        jsonschema:"Path to an OpenAPI or Swagger file on disk"`
	URL        string `json:"url,omitempty"         jsonschema:"URL to fetch the document from"`
	Content    string `json:"content,omitempty"     jsonschema:"Inline document content (JSON or YAML)"`
	StrictKeys *bool  `json:"strict_keys,omitempty" jsonschema:"Reject non-string mapping keys such as unquoted YAML status codes (default true). Set false to convert them to strings."`
}

var (
	documentsOnce sync.Once
	documents     *refurl.DocumentCache
)

// documentCache returns the session-wide cache of fetched documents, or nil
// when caching is disabled. Entries expire after cfg.CacheTTL so edited
// files are picked up again.
func documentCache() *refurl.DocumentCache {
	if !cfg.CacheEnabled {
		return nil
	}
	documentsOnce.Do(func() {
		documents = refurl.NewDocumentCache(cfg.CacheTTL, cfg.CacheMaxSize)
	})
	// A full cache would refuse new documents until entries expire.
	if documents.Len() >= cfg.CacheMaxSize && documents.Sweep() == 0 {
		documents.Clear()
	}
	return documents
}

// startSweeper removes expired documents every interval until ctx is done.
func startSweeper(ctx context.Context, interval time.Duration) {
	cache := documentCache()
	if cache == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cache.Sweep()
			}
		}
	}()
}

// fetcherKey covers every setting a fetcher is built from.
type fetcherKey struct {
	strictKeys      bool
	allowPrivateIPs bool
	cache           *refurl.DocumentCache
}

var (
	fetchersMu sync.Mutex
	fetchers   = map[fetcherKey]*refurl.DefaultFetcher{}
)

// sessionFetcher returns the fetcher shared by all tool calls with the same
// settings, so concurrent calls loading one resource wait on a single load.
// It uses the SSRF-safe client unless private addresses are allowed.
func sessionFetcher(strictKeys bool) (*refurl.DefaultFetcher, error) {
	key := fetcherKey{strictKeys: strictKeys, allowPrivateIPs: cfg.AllowPrivateIPs, cache: documentCache()}

	fetchersMu.Lock()
	defer fetchersMu.Unlock()
	if f, ok := fetchers[key]; ok {
		return f, nil
	}
	opts := []refurl.Option{refurl.WithDocumentCache(key.cache), refurl.WithStrict(strictKeys)}
	if !key.allowPrivateIPs {
		opts = append(opts, refurl.WithHTTPClient(newSafeHTTPClient()))
	}
	f, err := refurl.NewFetcher(opts...)
	if err != nil {
		return nil, err
	}
	fetchers[key] = f
	return f, nil
}

func (s specInput) validate() error {
	count := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASRESOLVE_MCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// load parses the document from whichever input was provided and resolves
// it with opts.
func (s specInput) load(opts ...resolver.Option) (*resolver.Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	strictKeys := cfg.StrictKeys
	if s.StrictKeys != nil {
		strictKeys = *s.StrictKeys
	}
	f, err := sessionFetcher(strictKeys)
	if err != nil {
		return nil, err
	}
	opts = append([]resolver.Option{resolver.WithFetcher(f), resolver.WithStrict(strictKeys)}, opts...)

	switch {
	case s.File != "":
		return resolver.ParseFile(s.File, opts...)
	case s.URL != "":
		return resolver.ParseURL(s.URL, opts...)
	default:
		return resolver.ParseBytes([]byte(s.Content), "", opts...)
	}
}
