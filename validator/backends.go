package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	swaggerMethods = []string{"get", "put", "post", "delete", "options", "head", "patch"}
	openAPIMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}
	allMethods     = openAPIMethods

	swaggerParamLocations = []string{"query", "header", "path", "formData", "body"}
	openAPIParamLocations = []string{"query", "header", "path", "cookie"}

	openAPIComponentSections = []string{
		"schemas", "responses", "parameters", "examples", "requestBodies",
		"headers", "securitySchemes", "links", "callbacks", "pathItems",
	}

	openAPIVersionRegex = regexp.MustCompile(`^3\.\d+\.\d+(-.+)?$`)
)

// Flex is a lenient backend for any version. It checks the overall shape of
// the document and its local references but none of the version-specific
// rules.
type Flex struct {
	cfg *config
}

// Validate checks doc and returns an *Error when it is invalid.
func (b *Flex) Validate(doc map[string]any) error {
	return b.Check(doc).Err()
}

// Check checks doc and returns every issue found.
func (b *Flex) Check(doc map[string]any) *Result {
	c := newChecker(KindFlex, b.cfg, doc)
	if c.result.Version == "" {
		c.addError("", "Document must declare an openapi or swagger version", withField("openapi"))
	}
	c.checkInfo()
	c.checkPaths(false, allMethods, nil)
	c.checkRefs()
	return c.done()
}

// Swagger2 checks documents against Swagger 2.0.
type Swagger2 struct {
	cfg *config
}

// Validate checks doc and returns an *Error when it is invalid.
func (b *Swagger2) Validate(doc map[string]any) error {
	return b.Check(doc).Err()
}

// Check checks doc and returns every issue found.
func (b *Swagger2) Check(doc map[string]any) *Result {
	c := newChecker(KindSwagger, b.cfg, doc)
	if v, _ := doc["swagger"].(string); v != "2.0" {
		c.addError("swagger", fmt.Sprintf("Unsupported swagger version %q, expected \"2.0\"", scalar(doc["swagger"])),
			withField("swagger"), withValue(doc["swagger"]))
		return c.done()
	}
	c.paramLocations = swaggerParamLocations
	c.requireResponses = true
	c.paramHook = func(path string, param map[string]any) {
		if scalar(param["in"]) == "body" {
			if _, ok := param["schema"].(map[string]any); !ok {
				c.addError(path, "Body parameter must have a schema", c.spec("parameter-object"), withField("schema"))
			}
			return
		}
		if scalar(param["type"]) == "" {
			c.addError(path, fmt.Sprintf("Parameter '%s' must have a type", scalar(param["name"])),
				c.spec("parameter-object"), withField("type"))
		}
	}

	c.checkInfo()
	c.checkMediaTypes("consumes", doc["consumes"])
	c.checkMediaTypes("produces", doc["produces"])
	c.checkPaths(true, swaggerMethods, func(_, opPath string, _, op map[string]any) {
		c.checkMediaTypes(opPath+".consumes", op["consumes"])
		c.checkMediaTypes(opPath+".produces", op["produces"])
	})
	for _, section := range []string{"definitions", "parameters", "responses", "securityDefinitions"} {
		c.checkMapping(section, doc[section])
	}
	c.checkRefs()
	return c.done()
}

// OpenAPI3 checks documents against OpenAPI 3.x.
type OpenAPI3 struct {
	cfg *config
}

// Validate checks doc and returns an *Error when it is invalid.
func (b *OpenAPI3) Validate(doc map[string]any) error {
	return b.Check(doc).Err()
}

// Check checks doc and returns every issue found.
func (b *OpenAPI3) Check(doc map[string]any) *Result {
	c := newChecker(KindOpenAPI, b.cfg, doc)
	version, _ := doc["openapi"].(string)
	if !openAPIVersionRegex.MatchString(version) {
		c.addError("openapi", fmt.Sprintf("Unsupported openapi version %q, expected 3.x.y", scalar(doc["openapi"])),
			withField("openapi"), withValue(doc["openapi"]))
		return c.done()
	}
	c.paramLocations = openAPIParamLocations
	c.requireResponses = true
	c.paramHook = func(path string, param map[string]any) {
		_, hasSchema := param["schema"]
		content, hasContent := param["content"]
		switch {
		case hasSchema && hasContent:
			c.addError(path, fmt.Sprintf("Parameter '%s' must not have both a schema and content", scalar(param["name"])),
				c.spec("parameter-object"))
		case !hasSchema && !hasContent:
			c.addError(path, fmt.Sprintf("Parameter '%s' must have either a schema or content", scalar(param["name"])),
				c.spec("parameter-object"), withField("schema"))
		case hasContent:
			c.checkContent(path+".content", content)
		}
	}

	c.checkInfo()
	c.checkServers("servers", doc["servers"])

	// From 3.1 on, paths is optional provided components or webhooks exist.
	pathsRequired := strings.HasPrefix(version, "3.0.")
	if !pathsRequired && doc["paths"] == nil && doc["components"] == nil && doc["webhooks"] == nil {
		c.addError("", "Document must have at least one of paths, components or webhooks", c.spec("openapi-object"))
	}
	c.checkPaths(pathsRequired, openAPIMethods, func(pattern, opPath string, item, op map[string]any) {
		c.checkRequestBody(opPath+".requestBody", op["requestBody"])
		if responses, ok := op["responses"].(map[string]any); ok {
			for _, code := range sortedKeys(responses) {
				if resp, ok := responses[code].(map[string]any); ok && resp["content"] != nil {
					c.checkContent(opPath+".responses."+code+".content", resp["content"])
				}
			}
		}
		c.checkServers(opPath+".servers", op["servers"])
	})
	if components, ok := c.checkMapping("components", doc["components"]); ok {
		for _, section := range openAPIComponentSections {
			c.checkMapping("components."+section, components[section])
		}
	}
	c.checkMapping("webhooks", doc["webhooks"])
	c.checkRefs()
	return c.done()
}

func (c *checker) checkRequestBody(path string, raw any) {
	body, ok := c.checkMapping(path, raw)
	if !ok {
		return
	}
	if _, isRef := body["$ref"]; isRef {
		return
	}
	content, ok := body["content"].(map[string]any)
	if !ok || len(content) == 0 {
		c.addError(path, "Request body must have content", c.spec("request-body-object"), withField("content"))
		return
	}
	c.checkContent(path+".content", content)
}

func (c *checker) checkContent(path string, raw any) {
	content, ok := c.checkMapping(path, raw)
	if !ok {
		return
	}
	for _, mediaType := range sortedKeys(content) {
		if !validMediaType(mediaType) {
			c.addError(path+"."+mediaType, fmt.Sprintf("Invalid media type: %s", mediaType),
				c.spec("media-type-object"), withValue(mediaType))
		}
	}
}

func (c *checker) checkServers(path string, raw any) {
	if raw == nil {
		return
	}
	servers, ok := raw.([]any)
	if !ok {
		c.addError(path, fmt.Sprintf("servers must be an array, got %s", kindOf(raw)), c.spec("server-object"))
		return
	}
	for i, s := range servers {
		server, ok := s.(map[string]any)
		if !ok || scalar(server["url"]) == "" {
			c.addError(fmt.Sprintf("%s[%d]", path, i), "Server must have a url", c.spec("server-object"), withField("url"))
		}
	}
}
