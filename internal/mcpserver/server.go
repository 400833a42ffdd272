// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes reference resolution and validation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oasresolve"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasresolve MCP server. Resolves $ref references in OpenAPI and Swagger documents and validates the result.

Configuration: defaults are configurable via OASRESOLVE_MCP_* environment variables set in your MCP client config.

Key settings:
- OASRESOLVE_MCP_CACHE_TTL (default: 5m): how long fetched documents are reused
- OASRESOLVE_MCP_CACHE_ENABLED (default: true): disable document caching entirely
- OASRESOLVE_MCP_STRICT_KEYS (default: true): reject non-string mapping keys unless a tool call sets strict_keys
- OASRESOLVE_MCP_RECURSION_LIMIT (default: 1): default recursion limit for resolve
- OASRESOLVE_MCP_SCOPE: default reference classes to resolve (all, internal, files, http, external)
- OASRESOLVE_MCP_BACKEND (default: flex): validation backend (flex, swagger-spec-validator, openapi-spec-validator)
- OASRESOLVE_MCP_VALIDATE_STRICT (default: false): enable strict validation by default
- OASRESOLVE_MCP_ALLOW_PRIVATE_IPS (default: false): allow references to private network addresses

Caching: fetched documents are cached per session and reused by later calls until they expire. A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	startSweeper(ctx, cfg.CacheSweepInterval)

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasresolve", Version: oasresolve.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve $ref references in an OpenAPI or Swagger document. Internal, file and http references are replaced by copies of their targets according to scope (all, internal, files, http, external). Set translate=true to copy external targets into components/schemas (or definitions) and point references at them instead of inlining. Returns counts and the resolved document; use output to write it to a file instead of returning it inline.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Resolve and validate an OpenAPI or Swagger document. Backends: flex (lenient, any version), swagger-spec-validator (2.0), openapi-spec-validator (3.x). Returns errors and warnings with dotted path locations. Set resolve=false to validate the document as written. Use offset/limit to paginate through results.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DefaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages so they
// are not leaked to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
