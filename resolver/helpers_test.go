package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasresolve/format"
	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/erraggy/oasresolve/refurl"
	"github.com/stretchr/testify/require"
)

// writeSpec writes content to dir/name, creating parent directories, and
// returns the path.
func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func parseYAML(t *testing.T, content string) any {
	t.Helper()
	doc, _, err := format.Parse([]byte(content), "inline.yaml", "", format.Options{})
	require.NoError(t, err)
	return doc
}

func dig(t *testing.T, doc any, path ...any) any {
	t.Helper()
	v, err := pathaccess.Get(doc, pathaccess.Path(path))
	require.NoError(t, err, "path %v", path)
	return v
}

func hasRef(v any) bool {
	for range Scan(v) {
		return true
	}
	return false
}

func resolveFile(t *testing.T, path string, opts ...Option) (*Resolver, error) {
	t.Helper()
	doc, _, err := format.Parse(mustRead(t, path), path, "", format.Options{})
	require.NoError(t, err)
	r, err := New(doc, append([]Option{WithBaseURL(path)}, opts...)...)
	require.NoError(t, err)
	return r, r.Resolve()
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func mustLocator(t *testing.T, raw string) *refurl.Locator {
	t.Helper()
	loc, err := refurl.Parse(raw)
	require.NoError(t, err)
	return loc
}
