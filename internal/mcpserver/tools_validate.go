package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The document to validate"`
	Backend        string    `json:"backend,omitempty"         jsonschema:"Validation backend: flex, swagger-spec-validator or openapi-spec-validator"`
	Resolve        *bool     `json:"resolve,omitempty"         jsonschema:"Resolve references before validating (default true)"`
	Scope          string    `json:"scope,omitempty"           jsonschema:"Reference classes to resolve (see the resolve tool)"`
	RecursionLimit int       `json:"recursion_limit,omitempty" jsonschema:"Recursion limit used while resolving (default 1)"`
	Strict         *bool     `json:"strict,omitempty"          jsonschema:"Enable strict validation mode"`
	NoWarnings     *bool     `json:"no_warnings,omitempty"     jsonschema:"Suppress warnings from output"`
	Offset         int       `json:"offset,omitempty"          jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit          int       `json:"limit,omitempty"           jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	Backend      string          `json:"backend"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

// checker is implemented by every validator backend.
type checker interface {
	Check(doc map[string]any) *validator.Result
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	kind := cfg.Backend
	if input.Backend != "" {
		var err error
		if kind, err = validator.ParseKind(input.Backend); err != nil {
			return errResult(err), validateOutput{}, nil
		}
	}
	backend, err := validator.New(kind,
		validator.WithStrictMode(strict),
		validator.WithIncludeWarnings(!noWarnings),
	)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	opts, err := resolverOptions(input.Scope, input.RecursionLimit, false, false)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	if input.Resolve != nil && !*input.Resolve {
		opts = append(opts, resolver.WithMode(resolver.ModeNone))
	}
	parsed, err := input.Spec.load(opts...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	var result *validator.Result
	if c, ok := backend.(checker); ok {
		result = c.Check(parsed.Document)
	} else if err := backend.Validate(parsed.Document); err != nil {
		var verr *validator.Error
		if !errors.As(err, &verr) {
			return errResult(err), validateOutput{}, nil
		}
		result = verr.Result
	} else {
		result = &validator.Result{Valid: true, Version: parsed.Version, Backend: kind}
	}

	output := validateOutput{
		Valid:      result.Valid,
		Version:    result.Version,
		Backend:    string(result.Backend),
		ErrorCount: len(result.Errors),
	}
	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, validateIssue{Path: e.Path, Message: e.Message, Field: e.Field})
	}
	if !noWarnings {
		output.WarningCount = len(result.Warnings)
		output.Warnings = makeSlice[validateIssue](len(result.Warnings))
		for _, w := range result.Warnings {
			output.Warnings = append(output.Warnings, validateIssue{Path: w.Path, Message: w.Message, Field: w.Field})
		}
	}

	// Paginate errors and warnings.
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	if !noWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}
