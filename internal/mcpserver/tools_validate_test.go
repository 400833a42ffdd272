package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// undocumentedSpec is valid but every operation lacks a summary.
const undocumentedSpec = `openapi: 3.0.3
info: {title: Pets, version: "1.0"}
paths:
  /a:
    get:
      responses:
        "200": {description: ok}
  /b:
    get:
      responses:
        "299": {description: ok}
  /c:
    get:
      responses:
        "200": {description: ok}
`

func boolPtr(b bool) *bool { return &b }

func TestValidateTool_Valid(t *testing.T) {
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec: specInput{Content: undocumentedSpec},
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, "3.0.3", output.Version)
	assert.Equal(t, "flex", output.Backend)
	assert.Equal(t, 0, output.ErrorCount)
	assert.Equal(t, 3, output.WarningCount)
	assert.Equal(t, 3, output.Returned)
	assert.Equal(t, "paths./a.get", output.Warnings[0].Path)
}

func TestValidateTool_Pagination(t *testing.T) {
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:   specInput{Content: undocumentedSpec},
		Offset: 1,
		Limit:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, output.WarningCount)
	require.Len(t, output.Warnings, 1)
	assert.Equal(t, "paths./b.get", output.Warnings[0].Path)
	assert.Equal(t, 1, output.Returned)
}

func TestValidateTool_NoWarnings(t *testing.T) {
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:       specInput{Content: undocumentedSpec},
		NoWarnings: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 0, output.WarningCount)
	assert.Nil(t, output.Warnings)
}

func TestValidateTool_Strict(t *testing.T) {
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:       specInput{Content: undocumentedSpec},
		Backend:    "openapi-spec-validator",
		Strict:     boolPtr(true),
		NoWarnings: boolPtr(false),
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 4, output.WarningCount)

	var paths []string
	for _, w := range output.Warnings {
		paths = append(paths, w.Path)
	}
	assert.Contains(t, paths, "paths./b.get.responses.299")
}

func TestValidateTool_Backends(t *testing.T) {
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:    specInput{Content: undocumentedSpec},
		Backend: "swagger-spec-validator",
	})
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, "swagger-spec-validator", output.Backend)
	require.Equal(t, 1, output.ErrorCount)
	assert.Equal(t, "swagger", output.Errors[0].Path)

	result, _, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:    specInput{Content: undocumentedSpec},
		Backend: "jsonschema",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "unknown backend")
}

func TestValidateTool_ResolveFalse(t *testing.T) {
	const external = `openapi: 3.0.3
info: {title: Pets, version: "1.0"}
paths: {}
components:
  schemas:
    Pet:
      $ref: "missing-pet-schema.yaml"
`
	result, _, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec: specInput{Content: external},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:    specInput{Content: external},
		Resolve: boolPtr(false),
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	require.Len(t, output.Warnings, 1)
	assert.Equal(t, "components.schemas.Pet", output.Warnings[0].Path)
	assert.Equal(t, "$ref", output.Warnings[0].Field)
}

func TestValidateTool_Errors(t *testing.T) {
	const broken = `openapi: 3.0.3
info: {title: Pets}
paths:
  pets:
    get:
      responses: {}
`
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Spec:    specInput{Content: broken},
		Backend: "openapi-spec-validator",
	})
	require.NoError(t, err)
	assert.False(t, output.Valid)
	require.Equal(t, 3, output.ErrorCount)
	assert.Equal(t, "Info must have a version", output.Errors[0].Message)
	assert.Equal(t, "Path must start with '/'", output.Errors[1].Message)
	assert.Equal(t, "Operation must define at least one response", output.Errors[2].Message)
}
