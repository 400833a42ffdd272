package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/oasresolve/format"
	"github.com/erraggy/oasresolve/internal/fileutil"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolveInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The document to resolve"`
	Scope          string    `json:"scope,omitempty"           jsonschema:"Reference classes to resolve: all, internal, files, http, external, or a comma-separated combination. Defaults to all, or external with translate."`
	RecursionLimit int       `json:"recursion_limit,omitempty" jsonschema:"How many times a reference may be re-entered while resolving itself (default 1)"`
	NullOnLimit    bool      `json:"null_on_limit,omitempty"   jsonschema:"Replace references that reach the recursion limit with null instead of failing"`
	Translate      bool      `json:"translate,omitempty"       jsonschema:"Copy external targets into the document's schema container and reference them locally"`
	Output         string    `json:"output,omitempty"          jsonschema:"File path to write the resolved document to (format from the extension). If omitted the document is returned inline."`
}

type resolveOutput struct {
	Version      string `json:"version"`
	References   int    `json:"references"`
	Inlined      int    `json:"inlined"`
	Skipped      int    `json:"skipped"`
	Translated   int    `json:"translated"`
	LimitReached int    `json:"limit_reached"`
	WrittenTo    string `json:"written_to,omitempty"`
	Document     string `json:"document,omitempty"`
}

// resolverOptions turns the shared tool inputs into resolver options.
// Explicit inputs win over the OASRESOLVE_MCP_* defaults.
func resolverOptions(scope string, limit int, nullOnLimit, translate bool) ([]resolver.Option, error) {
	opts := []resolver.Option{resolver.WithTranslateExternal(translate)}

	s := cfg.Scope
	if scope != "" {
		var err error
		if s, err = resolver.ParseScope(scope); err != nil {
			return nil, err
		}
	}
	if s != 0 {
		opts = append(opts, resolver.WithScope(s))
	}

	if limit <= 0 {
		limit = cfg.RecursionLimit
	}
	opts = append(opts, resolver.WithRecursionLimit(limit))
	if nullOnLimit {
		opts = append(opts, resolver.WithRecursionLimitHandler(resolver.NullRecursionLimitHandler))
	}
	return opts, nil
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	opts, err := resolverOptions(input.Scope, input.RecursionLimit, input.NullOnLimit, input.Translate)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}
	result, err := input.Spec.load(opts...)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	output := resolveOutput{
		Version:      result.Version,
		References:   result.Stats.References,
		Inlined:      result.Stats.Inlined,
		Skipped:      result.Stats.Skipped,
		Translated:   result.Stats.Translated,
		LimitReached: result.Stats.LimitReached,
	}

	if input.Output != "" {
		data, err := format.Serialize(result.Document, input.Output)
		if err != nil {
			return errResult(err), resolveOutput{}, nil
		}
		if err := fileutil.WriteFile(input.Output, data); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), resolveOutput{}, nil
		}
		output.WrittenTo = input.Output
		return nil, output, nil
	}

	data, err := format.Serialize(result.Document, "document.json")
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}
	output.Document = string(data)
	return nil, output, nil
}
