package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasresolve/oaserrors"
)

// Kind names a validation backend.
type Kind string

const (
	// KindFlex is a lenient structural check that accepts any OpenAPI or
	// Swagger version.
	KindFlex Kind = "flex"
	// KindSwagger checks documents against Swagger 2.0 only.
	KindSwagger Kind = "swagger-spec-validator"
	// KindOpenAPI checks documents against OpenAPI 3.x only.
	KindOpenAPI Kind = "openapi-spec-validator"
)

// DefaultKind is the backend used when none is named.
const DefaultKind = KindFlex

// Kinds returns every known backend kind.
func Kinds() []Kind {
	return []Kind{KindFlex, KindSwagger, KindOpenAPI}
}

// ParseKind returns the kind named s. The empty string selects DefaultKind.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return DefaultKind, nil
	}
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds(), k) {
		return "", &oaserrors.ConfigError{
			Option:  "backend",
			Value:   s,
			Message: fmt.Sprintf("unknown backend, must be one of: %s", joinKinds()),
		}
	}
	return k, nil
}

func joinKinds() string {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// Backend validates a document. Validate returns nil for a valid document
// and an *Error listing the problems otherwise.
type Backend interface {
	Validate(doc map[string]any) error
}

// New returns the backend of kind k.
func New(k Kind, opts ...Option) (Backend, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}
	switch k {
	case KindFlex:
		return &Flex{cfg: cfg}, nil
	case KindSwagger:
		return &Swagger2{cfg: cfg}, nil
	case KindOpenAPI:
		return &OpenAPI3{cfg: cfg}, nil
	default:
		_, err := ParseKind(string(k))
		return nil, err
	}
}

// Result contains the outcome of checking one document.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Version is the openapi or swagger field of the document
	Version string
	// Backend is the kind of backend that produced the result
	Backend Kind
	// Errors contains all validation errors
	Errors []Issue
	// Warnings contains all validation warnings
	Warnings []Issue
}

// Err returns nil for a valid result and an *Error otherwise.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Result: r}
}

// Error reports a document that failed validation.
type Error struct {
	Result *Result
}

func (e *Error) Error() string {
	errs := e.Result.Errors
	msg := fmt.Sprintf("%s: %d validation error(s)", e.Result.Backend, len(errs))
	if len(errs) > 0 {
		msg += ": " + errs[0].Path + ": " + errs[0].Message
	}
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(errs)-1)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *Error) Is(target error) bool {
	return target == oaserrors.ErrValidation
}

// Unwrap returns each error issue as an *oaserrors.ValidationError.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, len(e.Result.Errors))
	for _, issue := range e.Result.Errors {
		out = append(out, &oaserrors.ValidationError{
			Path:    issue.Path,
			Field:   issue.Field,
			Message: issue.Message,
		})
	}
	return out
}

// Option configures a backend.
type Option func(*config) error

type config struct {
	includeWarnings bool
	strict          bool
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{includeWarnings: true}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithIncludeWarnings controls whether best-practice warnings are reported.
func WithIncludeWarnings(include bool) Option {
	return func(cfg *config) error {
		cfg.includeWarnings = include
		return nil
	}
}

// WithStrictMode enables checks beyond what the specifications require,
// such as warning about non-standard HTTP status codes.
func WithStrictMode(strict bool) Option {
	return func(cfg *config) error {
		cfg.strict = strict
		return nil
	}
}
