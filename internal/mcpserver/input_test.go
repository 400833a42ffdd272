package mcpserver

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecInput_Validate(t *testing.T) {
	assert.EqualError(t, specInput{}.validate(), "exactly one of file, url, or content must be provided (got 0)")
	assert.EqualError(t, specInput{File: "a.yaml", Content: "{}"}.validate(),
		"exactly one of file, url, or content must be provided (got 2)")
	assert.NoError(t, specInput{Content: "{}"}.validate())
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 8 })
	err := specInput{Content: strings.Repeat("x", 9)}.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OASRESOLVE_MCP_MAX_INLINE_SIZE")
}

func TestSpecInput_Load(t *testing.T) {
	res, err := specInput{Content: "swagger: '2.0'\ninfo: {title: t, version: v}\npaths: {}\n"}.load()
	require.NoError(t, err)
	assert.Equal(t, "2.0", res.Version)

	_, err = specInput{File: "does-not-exist.yaml"}.load()
	require.Error(t, err)
}

func TestSpecInput_StrictKeys(t *testing.T) {
	content := "swagger: '2.0'\ninfo: {title: t, version: v}\npaths:\n  /pets:\n    get:\n      responses:\n        200: {description: ok}\n"

	_, err := specInput{Content: content}.load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-string mapping key 200")

	res, err := specInput{Content: content, StrictKeys: boolPtr(false)}.load()
	require.NoError(t, err)
	assert.Contains(t, res.Document["paths"], "/pets")

	withConfig(t, func(c *serverConfig) { c.StrictKeys = false })
	_, err = specInput{Content: content}.load()
	require.NoError(t, err)
	_, err = specInput{Content: content, StrictKeys: boolPtr(true)}.load()
	require.Error(t, err)
}

func TestSessionFetcher(t *testing.T) {
	strict, err := sessionFetcher(true)
	require.NoError(t, err)
	again, err := sessionFetcher(true)
	require.NoError(t, err)
	assert.Same(t, strict, again)

	lenient, err := sessionFetcher(false)
	require.NoError(t, err)
	assert.NotSame(t, strict, lenient)

	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = !c.AllowPrivateIPs })
	other, err := sessionFetcher(true)
	require.NoError(t, err)
	assert.NotSame(t, strict, other)
}

func TestDocumentCache(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })
	assert.Nil(t, documentCache())

	withConfig(t, func(c *serverConfig) {
		c.CacheEnabled = true
		c.CacheTTL = time.Hour
	})
	cache := documentCache()
	require.NotNil(t, cache)
	assert.Same(t, cache, documentCache())
}

func TestSanitizeError(t *testing.T) {
	got := sanitizeError(errors.New(`Cannot fetch "file:///home/alice/specs/pet.yaml"`))
	assert.Equal(t, `Cannot fetch "file://<path>"`, got)
	assert.Empty(t, sanitizeError(nil))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{2, 3}, paginate(items, 1, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 10))
	assert.Nil(t, paginate(items, 5, 1))
	assert.Nil(t, paginate(items, -1, 1))
	assert.Equal(t, items, paginate(items, 0, 0))
}
