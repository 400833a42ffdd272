package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/erraggy/oasresolve/format"
	"github.com/erraggy/oasresolve/internal/fileutil"
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/validator"
	"github.com/spf13/cobra"
)

// validateOptions are the resolved settings of one validate run.
type validateOptions struct {
	resolve        bool
	outputFile     string
	scope          resolver.Scope // 0 selects the mode's default
	recursionLimit int
	translate      bool
	backend        validator.Kind
	strict         bool
	strictKeys     bool
	verbose        bool
}

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|url>...",
		Short: "Validate one or more OpenAPI or Swagger documents",
		Long: `Validate the given documents.

With --resolve (the default) references are resolved before validation, so a
document split across several files is validated as a whole. With
--no-resolve the document is validated as written and references that leave
it are reported as warnings.

Mapping keys must be strings unless --no-strict-keys is given, in which case
keys such as unquoted YAML status codes (200:) are converted to strings.

With --output-file the validated document is written to that file: resolved
unless --no-resolve is given. Only one input is allowed in that case. The
output format follows the file extension (.json for JSON, otherwise YAML).

Every flag can also be set through the environment, e.g.
OASRESOLVE_RECURSION_LIMIT=2 or OASRESOLVE_RESOLVE=false.

Exit codes:
  0    All documents are valid
  1    A document failed to resolve or validate
  2    The command line is invalid`,
		Example: `  oasresolve validate openapi.yaml
  oasresolve validate --no-resolve api/*.yaml
  oasresolve validate -o resolved.json https://example.com/api/openapi.yaml
  oasresolve validate --translate --backend openapi-spec-validator openapi.yaml`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("validate requires at least one file path or URL")
			}
			return nil
		},
		RunE: runValidate,
	}

	flags := cmd.Flags()
	flags.Bool("resolve", true, "resolve references before validation")
	flags.Bool("no-resolve", false, "validate documents as written, without resolving references")
	flags.StringP("output-file", "o", "", "write the validated document to `FILENAME`")
	flags.String("scope", "", "reference classes to resolve: all, internal, files, http, external, or a comma-separated list (default all, external with --translate)")
	flags.Int("recursion-limit", resolver.DefaultRecursionLimit, "how many times a reference may be re-entered while resolving itself")
	flags.Bool("translate", false, "copy external targets into the document's schema container instead of inlining them")
	flags.String("backend", string(validator.DefaultKind), "validation backend: flex, swagger-spec-validator or openapi-spec-validator")
	flags.Bool("strict", false, "enable checks beyond what the specifications require")
	flags.Bool("strict-keys", true, "reject documents with non-string mapping keys")
	flags.Bool("no-strict-keys", false, "convert non-string mapping keys, such as unquoted status codes, to strings")
	flags.BoolP("verbose", "v", false, "log resolution progress to stderr")
	return cmd
}

func loadValidateOptions(cmd *cobra.Command, args []string) (*validateOptions, error) {
	v, err := bindEnv(cmd.Flags())
	if err != nil {
		return nil, err
	}
	opts := &validateOptions{
		resolve:        v.GetBool("resolve") && !v.GetBool("no-resolve"),
		outputFile:     v.GetString("output-file"),
		recursionLimit: v.GetInt("recursion-limit"),
		translate:      v.GetBool("translate"),
		strict:         v.GetBool("strict"),
		strictKeys:     v.GetBool("strict-keys") && !v.GetBool("no-strict-keys"),
		verbose:        v.GetBool("verbose"),
	}
	if opts.outputFile != "" && len(args) > 1 {
		return nil, usagef("if --output-file is given, only one input URL is allowed")
	}
	if opts.recursionLimit < 1 {
		return nil, usagef("invalid --recursion-limit %d: must be positive", opts.recursionLimit)
	}
	if raw := v.GetString("scope"); raw != "" {
		if opts.scope, err = resolver.ParseScope(raw); err != nil {
			return nil, &usageError{err: err}
		}
	}
	if opts.backend, err = validator.ParseKind(v.GetString("backend")); err != nil {
		return nil, &usageError{err: err}
	}
	return opts, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts, err := loadValidateOptions(cmd, args)
	if err != nil {
		return err
	}
	zl, err := newZapLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	logger := NewZapAdapter(zl)

	backend, err := validator.New(opts.backend, validator.WithStrictMode(opts.strict))
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, location := range args {
		if err := validateOne(stdout, stderr, location, opts, backend, logger); err != nil {
			return err
		}
	}
	return nil
}

// validateOne processes one input. runValidate stops at the first document
// that fails.
func validateOne(stdout, stderr io.Writer, location string, opts *validateOptions, backend validator.Backend, logger resolver.Logger) error {
	_, _ = fmt.Fprintf(stdout, "Processing %q...\n", location)

	ropts := []resolver.Option{
		resolver.WithLogger(logger.With("location", location)),
		resolver.WithValidator(backend),
		resolver.WithStrict(opts.strictKeys),
	}
	if opts.resolve {
		_, _ = fmt.Fprintln(stdout, " -> Resolving external references.")
		ropts = append(ropts,
			resolver.WithTranslateExternal(opts.translate),
			resolver.WithRecursionLimit(opts.recursionLimit),
		)
		if opts.scope != 0 {
			ropts = append(ropts, resolver.WithScope(opts.scope))
		}
	} else {
		_, _ = fmt.Fprintln(stdout, " -> Not resolving external references.")
		ropts = append(ropts, resolver.WithMode(resolver.ModeNone))
	}

	res, err := resolver.ParseLocation(location, ropts...)
	if err != nil {
		printError(stderr, "ERROR in %q [%s]: %s", location, errorKind(err), err)
		var verr *validator.Error
		if errors.As(err, &verr) {
			for _, issue := range verr.Result.Errors {
				_, _ = fmt.Fprintf(stderr, "  %s\n", issue)
			}
		}
		return &failedError{count: 1}
	}

	_, _ = fmt.Fprintf(stdout, "Validates OK as %s!\n", versionLabel(res.Version))

	if opts.outputFile != "" {
		data, err := format.Serialize(res.Document, opts.outputFile)
		if err != nil {
			return fmt.Errorf("serializing %s: %w", opts.outputFile, err)
		}
		if err := fileutil.WriteFile(opts.outputFile, data); err != nil {
			return fmt.Errorf("writing %s: %w", opts.outputFile, err)
		}
		_, _ = fmt.Fprintf(stdout, "Wrote %q.\n", opts.outputFile)
	}
	return nil
}

// errorKind names the class of err for the error line.
func errorKind(err error) string {
	switch {
	case errors.Is(err, oaserrors.ErrValidation):
		return "ValidationError"
	case errors.Is(err, oaserrors.ErrResolution):
		return "ResolutionError"
	case errors.Is(err, oaserrors.ErrParse):
		return "ParseError"
	case errors.Is(err, oaserrors.ErrResourceLimit):
		return "ResourceLimitError"
	case errors.Is(err, oaserrors.ErrPath):
		return "PathError"
	default:
		return "Error"
	}
}

func versionLabel(version string) string {
	switch {
	case version == "":
		return "an unversioned document"
	case version == "2.0":
		return "Swagger " + version
	default:
		return "OpenAPI " + version
	}
}
