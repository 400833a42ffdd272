// Package commands implements the oasresolve command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/oasresolve"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// EnvPrefix prefixes the environment variables that mirror command flags,
// e.g. OASRESOLVE_RECURSION_LIMIT for --recursion-limit.
const EnvPrefix = "OASRESOLVE"

// usageError marks a command line that could not be understood.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// failedError reports a failure that was already printed.
type failedError struct {
	count int
}

func (e *failedError) Error() string {
	return fmt.Sprintf("%d document(s) failed", e.count)
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return exitCode(err, root, stderr)
}

func exitCode(err error, root *cobra.Command, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var failed *failedError
	if errors.As(err, &failed) {
		return ExitError
	}
	var usage *usageError
	if errors.As(err, &usage) {
		printError(stderr, "Error: %v", err)
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return ExitUsage
	}
	printError(stderr, "Error: %v", err)
	return ExitError
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "oasresolve",
		Short: "Resolve and validate OpenAPI and Swagger documents",
		Long: `oasresolve resolves $ref references in OpenAPI and Swagger documents and
validates the result.

References into the document itself, into other local files and over http(s)
are replaced by copies of their targets. Recursive references are followed up
to a configurable limit.`,
		Version:       oasresolve.Version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(`{{printf "oasresolve %s" .Version}}` + "\n" + oasresolve.BuildInfo() + "\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newValidateCommand())
	root.AddCommand(newMCPCommand())
	return root
}

// bindEnv returns a viper instance reading cmd's flags, falling back to the
// OASRESOLVE_* environment.
func bindEnv(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("commands: binding flags: %w", err)
	}
	return v, nil
}

var errorColor = color.New(color.FgRed)

func printError(w io.Writer, format string, args ...any) {
	_, _ = errorColor.Fprintf(w, format+"\n", args...)
}
