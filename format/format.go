// Package format decodes and encodes OpenAPI documents as generic trees.
//
// Documents are decoded into map[string]any, []any and scalars. YAML input is
// normalized so every mapping is a map[string]any, whatever keys the YAML
// decoder produced.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/pathaccess"
	"go.yaml.in/yaml/v4"
)

// Format identifies a serialization format.
type Format string

const (
	// YAML is the YAML format
	YAML Format = "yaml"
	// JSON is the JSON format
	JSON Format = "json"
	// Unknown means no format could be selected
	Unknown Format = "unknown"
)

var extensions = map[string]Format{
	".yaml": YAML,
	".yml":  YAML,
	".json": JSON,
	".js":   JSON,
}

var mimeTypes = map[string]Format{
	"application/json":       JSON,
	"application/javascript": JSON,
	"application/x-yaml":     YAML,
	"application/yaml":       YAML,
	"text/yaml":              YAML,
	"text/x-yaml":            YAML,
}

// DetectFromPath selects a format from a file name or URL path extension.
func DetectFromPath(path string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return Unknown
}

// DetectFromContentType selects a format from a Content-Type header value.
// Parameters such as charset are ignored.
func DetectFromContentType(contentType string) Format {
	if contentType == "" {
		return Unknown
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(strings.SplitN(contentType, ";", 2)[0]))
	}
	if f, ok := mimeTypes[mediaType]; ok {
		return f
	}
	return Unknown
}

// DetectFromContent guesses the format from the first non-blank byte.
// JSON objects and arrays start with '{' or '['; anything else is taken as YAML.
func DetectFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return Unknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return JSON
	}
	return YAML
}

// Detect picks the format from the hints. The content type wins over the
// file name extension.
func Detect(filename, contentType string) Format {
	if f := DetectFromContentType(contentType); f != Unknown {
		return f
	}
	return DetectFromPath(filename)
}

// Options control decoding.
type Options struct {
	// Strict rejects mappings with non-string keys instead of stringifying them.
	Strict bool
}

// Parse decodes data using the format selected by filename and contentType.
// Without a usable hint the format guessed from the content is tried first,
// then the other one. The error of the first attempt is kept as the cause.
func Parse(data []byte, filename, contentType string, opts Options) (any, Format, error) {
	hinted := Detect(filename, contentType)
	order := []Format{JSON, YAML}
	switch {
	case hinted != Unknown:
		order = []Format{hinted}
	case DetectFromContent(data) == YAML:
		order = []Format{YAML, JSON}
	}

	var firstErr error
	for _, f := range order {
		doc, err := decode(f, data, opts)
		if err == nil {
			return doc, f, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if hinted != Unknown {
			return nil, f, &oaserrors.ParseError{
				Path:    filename,
				Message: fmt.Sprintf("failed to parse %s", f),
				Cause:   err,
			}
		}
	}
	return nil, Unknown, &oaserrors.ParseError{
		Path:    filename,
		Message: "Could not detect format of spec string!",
		Cause:   firstErr,
	}
}

func decode(f Format, data []byte, opts Options) (any, error) {
	var raw any
	switch f {
	case JSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return normalize(raw, nil, opts.Strict)
	default:
		return nil, fmt.Errorf("format: unsupported format %q", f)
	}
}

// normalize rewrites map[any]any produced by the YAML decoder into
// map[string]any, recursively.
func normalize(v any, path pathaccess.Path, strict bool) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			n, err := normalize(child, path.Append(k), strict)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			key, ok := k.(string)
			if !ok {
				if strict {
					return nil, &oaserrors.ParseError{
						Message: fmt.Sprintf("non-string mapping key %v (%T) at %q", k, k, path.String()),
					}
				}
				key = fmt.Sprint(k)
			}
			n, err := normalize(child, path.Append(key), strict)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		for i, child := range t {
			n, err := normalize(child, path.Append(i), strict)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

// Serialize encodes doc as indented JSON when filename ends in .json, and as
// YAML otherwise.
func Serialize(doc any, filename string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("format: failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("format: failed to marshal YAML: %w", err)
	}
	return data, nil
}
