package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cyclicSpec = `openapi: 3.0.0
info: {title: Cyclic, version: "1.0"}
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: "#/components/schemas/Node"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeDocument(t *testing.T, output resolveOutput) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Document), &doc))
	return doc
}

func TestResolveTool_File(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", `openapi: 3.0.0
info: {title: Files, version: "1.0"}
paths: {}
components:
  schemas:
    Pet:
      $ref: "schemas/pet.yaml"
    Ref:
      $ref: "#/components/schemas/Pet"
`)
	writeFile(t, dir, "schemas/pet.yaml", "type: object\n")

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{File: main},
	})
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", output.Version)
	assert.Equal(t, 3, output.References)
	assert.Equal(t, 3, output.Inlined)

	doc := decodeDocument(t, output)
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "object"}, schemas["Pet"])
	assert.Equal(t, map[string]any{"type": "object"}, schemas["Ref"])
}

func TestResolveTool_Translate(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yaml", `openapi: 3.0.0
info: {title: Files, version: "1.0"}
paths: {}
components:
  schemas:
    Pet:
      $ref: "common.yaml#/components/schemas/Pet"
`)
	writeFile(t, dir, "common.yaml", "components:\n  schemas:\n    Pet:\n      type: object\n")

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:      specInput{File: main},
		Translate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Translated)

	schemas := decodeDocument(t, output)["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/components/schemas/common.yaml_Pet"}, schemas["Pet"])
	assert.Equal(t, map[string]any{"type": "object"}, schemas["common.yaml_Pet"])
}

func TestResolveTool_RecursionLimit(t *testing.T) {
	result, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{Content: cyclicSpec},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "Recursion reached limit of 1")

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:           specInput{Content: cyclicSpec},
		RecursionLimit: 2,
		NullOnLimit:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.LimitReached)
	assert.NotEmpty(t, output.Document)
}

func TestResolveTool_Scope(t *testing.T) {
	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:  specInput{Content: cyclicSpec},
		Scope: "files,http",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Skipped)
	assert.Equal(t, 0, output.Inlined)

	result, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:  specInput{Content: cyclicSpec},
		Scope: "gopher",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestResolveTool_Output(t *testing.T) {
	out := filepath.Join(t.TempDir(), "resolved.yaml")
	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:        specInput{Content: cyclicSpec},
		NullOnLimit: true,
		Output:      out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, output.WrittenTo)
	assert.Empty(t, output.Document)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "openapi: 3.0.0")
}

func TestResolveTool_URL(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = true })

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/openapi.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"openapi": "3.1.0", "info": {"title": "t", "version": "1"},
				"components": {"schemas": {"Pet": {"$ref": "` + srv.URL + `/pet.json"}}}}`))
		case "/relative.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"openapi": "3.1.0", "info": {"title": "t", "version": "1"},
				"components": {"schemas": {"Pet": {"$ref": "pet.json"}}}}`))
		case "/pet.json":
			_, _ = w.Write([]byte(`{"type": "object"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{URL: srv.URL + "/openapi.json"},
	})
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", output.Version)
	assert.Equal(t, 1, output.Inlined)

	result, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{URL: srv.URL + "/relative.json"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "non-file reference")
}

func TestResolveTool_ConcurrentCallsShareLoad(t *testing.T) {
	withConfig(t, func(c *serverConfig) {
		c.AllowPrivateIPs = true
		c.CacheEnabled = false
	})

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"openapi": "3.1.0", "info": {"title": "t", "version": "1"}, "paths": {}}`))
	}))
	defer srv.Close()

	var wg sync.WaitGroup
	outputs := make([]resolveOutput, 2)
	results := make([]*mcp.CallToolResult, 2)
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], outputs[i], _ = handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
				Spec: specInput{URL: srv.URL + "/openapi.json"},
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i := range outputs {
		assert.Nil(t, results[i])
		assert.Equal(t, "3.1.0", outputs[i].Version)
	}

	// Without overlap every call loads again.
	_, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{URL: srv.URL + "/openapi.json"},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestResolveTool_URLBlockedByDefault(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.AllowPrivateIPs = false })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	result, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{URL: srv.URL + "/blocked.json"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "blocked request")
}
