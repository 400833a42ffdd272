package validator

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/erraggy/oasresolve/pathaccess"
	"github.com/erraggy/oasresolve/refurl"
	"github.com/erraggy/oasresolve/resolver"
)

// pathParamRegex matches path template parameters like {paramName}.
var pathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// checker accumulates the issues found in one document.
type checker struct {
	cfg     *config
	doc     map[string]any
	specURL string
	result  *Result

	// paramLocations lists the accepted values of a parameter's "in" field.
	// Parameters are not checked when it is empty.
	paramLocations []string
	// paramHook, when set, receives every inline parameter.
	paramHook parameterHook
	// requireResponses makes every operation define at least one response
	// with a description.
	requireResponses bool
}

func newChecker(kind Kind, cfg *config, doc map[string]any) *checker {
	version := resolver.DetectVersion(doc)
	return &checker{
		cfg:     cfg,
		doc:     doc,
		specURL: specURL(version),
		result: &Result{
			Backend:  kind,
			Version:  version,
			Errors:   make([]Issue, 0),
			Warnings: make([]Issue, 0),
		},
	}
}

// specURL returns the address of the published specification for version.
func specURL(version string) string {
	switch {
	case version == "2.0":
		return "https://spec.openapis.org/oas/v2.0.html"
	case strings.HasPrefix(version, "3."):
		return "https://spec.openapis.org/oas/v" + version + ".html"
	default:
		return ""
	}
}

func (c *checker) done() *Result {
	c.result.Valid = len(c.result.Errors) == 0
	return c.result
}

func (c *checker) spec(section string) issueOption {
	return func(i *Issue) {
		if c.specURL != "" {
			i.SpecRef = c.specURL + "#" + section
		}
	}
}

func (c *checker) addError(path, message string, opts ...issueOption) {
	issue := Issue{Path: path, Message: message, Severity: SeverityError}
	for _, opt := range opts {
		opt(&issue)
	}
	c.result.Errors = append(c.result.Errors, issue)
}

func (c *checker) addWarning(path, message string, opts ...issueOption) {
	if !c.cfg.includeWarnings {
		return
	}
	issue := Issue{Path: path, Message: message, Severity: SeverityWarning}
	for _, opt := range opts {
		opt(&issue)
	}
	c.result.Warnings = append(c.result.Warnings, issue)
}

func (c *checker) checkInfo() {
	info, ok := c.doc["info"].(map[string]any)
	if !ok {
		c.addError("info", "Document must have an info object", c.spec("info-object"), withField("info"))
		return
	}
	if scalar(info["title"]) == "" {
		c.addError("info", "Info must have a title", c.spec("info-object"), withField("title"))
	}
	if scalar(info["version"]) == "" {
		c.addError("info", "Info must have a version", c.spec("info-object"), withField("version"))
	}
}

// operationHook receives every operation found by checkPaths.
type operationHook func(pattern, opPath string, item, op map[string]any)

// checkPaths walks the paths object. Operations are the entries of a path
// item named by methods.
func (c *checker) checkPaths(required bool, methods []string, hook operationHook) {
	raw, present := c.doc["paths"]
	if !present {
		if required {
			c.addError("paths", "Document must have a paths object", c.spec("paths-object"), withField("paths"))
		}
		return
	}
	paths, ok := raw.(map[string]any)
	if !ok {
		c.addError("paths", fmt.Sprintf("paths must be an object, got %s", kindOf(raw)), c.spec("paths-object"))
		return
	}

	operationIDs := make(map[string]string)
	for _, pattern := range sortedKeys(paths) {
		if strings.HasPrefix(pattern, "x-") {
			continue
		}
		prefix := "paths." + pattern
		if !strings.HasPrefix(pattern, "/") {
			c.addError(prefix, "Path must start with '/'", c.spec("paths-object"), withValue(pattern))
		}
		if err := validatePathTemplate(pattern); err != nil {
			c.addError(prefix, fmt.Sprintf("Invalid path template: %s", err), c.spec("paths-object"), withValue(pattern))
		}
		if len(pattern) > 1 && strings.HasSuffix(pattern, "/") {
			c.addWarning(prefix, "Path has trailing slash, which is discouraged by REST best practices",
				c.spec("paths-object"), withValue(pattern))
		}

		item, ok := paths[pattern].(map[string]any)
		if !ok {
			c.addError(prefix, fmt.Sprintf("Path item must be an object, got %s", kindOf(paths[pattern])), c.spec("path-item-object"))
			continue
		}
		for _, method := range sortedKeys(item) {
			if !slices.Contains(methods, method) {
				continue
			}
			opPath := prefix + "." + method
			op, ok := item[method].(map[string]any)
			if !ok {
				c.addError(opPath, fmt.Sprintf("Operation must be an object, got %s", kindOf(item[method])), c.spec("operation-object"))
				continue
			}
			c.checkOperationID(op, opPath, operationIDs)
			c.checkResponses(op, opPath)
			if len(c.paramLocations) > 0 {
				c.checkParameters(pattern, opPath, item, op)
			}
			if hook != nil {
				hook(pattern, opPath, item, op)
			}
			if scalar(op["summary"]) == "" && scalar(op["description"]) == "" {
				c.addWarning(opPath, "Operation should have a description or summary for better documentation",
					c.spec("operation-object"), withField("description"))
			}
		}
	}
}

func (c *checker) checkOperationID(op map[string]any, opPath string, seen map[string]string) {
	id := scalar(op["operationId"])
	if id == "" {
		return
	}
	if first, exists := seen[id]; exists {
		c.addError(opPath, fmt.Sprintf("Duplicate operationId '%s' (first seen at %s)", id, first),
			c.spec("operation-object"), withField("operationId"), withValue(id))
		return
	}
	seen[id] = opPath
}

func (c *checker) checkResponses(op map[string]any, opPath string) {
	raw, present := op["responses"]
	if !present {
		if c.requireResponses {
			c.addError(opPath, "Operation must have a responses object", c.spec("operation-object"), withField("responses"))
		}
		return
	}
	responses, ok := raw.(map[string]any)
	if !ok {
		c.addError(opPath+".responses", fmt.Sprintf("responses must be an object, got %s", kindOf(raw)), c.spec("responses-object"))
		return
	}
	if len(responses) == 0 && c.requireResponses {
		c.addError(opPath+".responses", "Operation must define at least one response", c.spec("responses-object"))
		return
	}

	hasSuccess := false
	for _, code := range sortedKeys(responses) {
		path := opPath + ".responses." + code
		switch {
		case !validStatusCode(code):
			c.addError(path, fmt.Sprintf("Invalid HTTP status code: %s", code), c.spec("responses-object"), withValue(code))
			continue
		case c.cfg.strict && !isStandardStatusCode(code):
			c.addWarning(path, fmt.Sprintf("Non-standard HTTP status code: %s (not defined in HTTP RFCs)", code),
				c.spec("responses-object"), withValue(code))
		}
		if strings.HasPrefix(code, "2") || code == "default" {
			hasSuccess = true
		}
		if !c.requireResponses || strings.HasPrefix(code, "x-") {
			continue
		}
		resp, ok := responses[code].(map[string]any)
		if !ok {
			c.addError(path, fmt.Sprintf("Response must be an object, got %s", kindOf(responses[code])), c.spec("response-object"))
			continue
		}
		if _, isRef := resp[resolver.RefKey]; isRef {
			continue
		}
		if _, ok := resp["description"].(string); !ok {
			c.addError(path, "Response must have a description", c.spec("response-object"), withField("description"))
		}
	}
	if !hasSuccess && c.cfg.strict {
		c.addWarning(opPath+".responses", "Operation should define at least one successful response (2XX or default)",
			c.spec("responses-object"))
	}
}

// parameterHook receives every inline parameter checked by checkParameters.
type parameterHook func(path string, param map[string]any)

// checkParameters checks the parameters of a path item and one of its
// operations, and that the path parameters they declare match the template.
func (c *checker) checkParameters(pattern, opPath string, item, op map[string]any) {
	declared := make(map[string]bool)
	opaque := false
	lists := []struct {
		path string
		raw  any
	}{
		{"paths." + pattern + ".parameters", item["parameters"]},
		{opPath + ".parameters", op["parameters"]},
	}
	for _, list := range lists {
		if list.raw == nil {
			continue
		}
		params, ok := list.raw.([]any)
		if !ok {
			c.addError(list.path, fmt.Sprintf("parameters must be an array, got %s", kindOf(list.raw)), c.spec("parameter-object"))
			continue
		}
		for i, raw := range params {
			path := fmt.Sprintf("%s[%d]", list.path, i)
			param, ok := raw.(map[string]any)
			if !ok {
				c.addError(path, fmt.Sprintf("Parameter must be an object, got %s", kindOf(raw)), c.spec("parameter-object"))
				continue
			}
			if _, isRef := param[resolver.RefKey]; isRef {
				// An unresolved parameter may declare anything.
				opaque = true
				continue
			}
			name := scalar(param["name"])
			in := scalar(param["in"])
			if name == "" {
				c.addError(path, "Parameter must have a name", c.spec("parameter-object"), withField("name"))
			}
			if !slices.Contains(c.paramLocations, in) {
				c.addError(path, fmt.Sprintf("Invalid parameter location %q, must be one of: %s", in, strings.Join(c.paramLocations, ", ")),
					c.spec("parameter-object"), withField("in"), withValue(in))
			}
			if in == "path" {
				declared[name] = true
				if required, _ := param["required"].(bool); !required {
					c.addError(path, fmt.Sprintf("Path parameter '%s' must be required", name),
						c.spec("parameter-object"), withField("required"))
				}
			}
			if c.paramHook != nil {
				c.paramHook(path, param)
			}
		}
	}
	if opaque {
		return
	}

	inTemplate := extractPathParameters(pattern)
	for _, name := range slices.Sorted(maps.Keys(inTemplate)) {
		if !declared[name] {
			c.addError(opPath, fmt.Sprintf("Path parameter '%s' in template is not declared", name),
				c.spec("path-templating"), withValue(name))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(declared)) {
		if !inTemplate[name] {
			c.addError(opPath, fmt.Sprintf("Parameter '%s' is declared in path but missing from the path template", name),
				c.spec("path-templating"), withValue(name))
		}
	}
}

// checkRefs checks that every local reference points at an existing value.
// External references are reported as warnings: a validated document is
// expected to be resolved already.
func (c *checker) checkRefs() {
	for ref := range resolver.Scan(c.doc) {
		path := dotted(ref.Path)
		switch {
		case strings.HasSuffix(ref.Ref, "/"):
			c.addError(path, fmt.Sprintf("$ref %q references an empty name", ref.Ref), withField("$ref"), withValue(ref.Ref))
		case !strings.HasPrefix(ref.Ref, "#"):
			c.addWarning(path, fmt.Sprintf("$ref %q points outside the document", ref.Ref), withField("$ref"), withValue(ref.Ref))
		default:
			if _, err := pathaccess.GetPointer(c.doc, refurl.SplitFragment(ref.Ref[1:])); err != nil {
				c.addError(path, fmt.Sprintf("$ref %q does not resolve to a value in the document", ref.Ref),
					withField("$ref"), withValue(ref.Ref))
			}
		}
	}
}

func (c *checker) checkMediaTypes(path string, raw any) {
	list, ok := raw.([]any)
	if !ok {
		if raw != nil {
			c.addError(path, fmt.Sprintf("media types must be an array, got %s", kindOf(raw)))
		}
		return
	}
	for i, v := range list {
		if mt := scalar(v); !validMediaType(mt) {
			c.addError(fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("Invalid media type: %s", mt), withValue(mt))
		}
	}
}

// checkMapping reports a value that is present but not an object.
func (c *checker) checkMapping(path string, raw any) (map[string]any, bool) {
	if raw == nil {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		c.addError(path, fmt.Sprintf("%s must be an object, got %s", lastSegment(path), kindOf(raw)))
	}
	return m, ok
}

// validatePathTemplate reports a malformed path template: unbalanced or
// nested braces, empty or duplicate parameter names, and reserved characters.
func validatePathTemplate(pattern string) error {
	if strings.Contains(pattern, "{}") {
		return fmt.Errorf("empty parameter name in path template")
	}
	if strings.Contains(pattern, "//") {
		return fmt.Errorf("path contains consecutive slashes")
	}
	for _, reserved := range []string{"#", "?"} {
		if strings.Contains(pattern, reserved) {
			return fmt.Errorf("path contains reserved character '%s'", reserved)
		}
	}

	depth := 0
	for i, ch := range pattern {
		switch ch {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("nested braces are not allowed at position %d", i)
			}
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected closing brace at position %d", i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed brace in path template")
	}

	seen := make(map[string]bool)
	for _, match := range pathParamRegex.FindAllStringSubmatch(pattern, -1) {
		name := match[1]
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty parameter name in path template")
		}
		if seen[name] {
			return fmt.Errorf("duplicate parameter name '%s' in path template", name)
		}
		seen[name] = true
	}
	return nil
}

// extractPathParameters extracts parameter names from a path template
// e.g., "/pets/{petId}/owners/{ownerId}" -> {"petId": true, "ownerId": true}
func extractPathParameters(pattern string) map[string]bool {
	params := make(map[string]bool)
	for _, match := range pathParamRegex.FindAllStringSubmatch(pattern, -1) {
		params[match[1]] = true
	}
	return params
}

// scalar renders a scalar value as a string, and anything else as "".
func scalar(v any) string {
	switch v := v.(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// dotted renders p like "paths./pets.get.parameters[0]".
func dotted(p pathaccess.Path) string {
	var b strings.Builder
	for _, elem := range p {
		if i, ok := elem.(int); ok {
			fmt.Fprintf(&b, "[%d]", i)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		fmt.Fprint(&b, elem)
	}
	return b.String()
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
