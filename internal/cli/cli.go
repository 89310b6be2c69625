// Package cli implements the segdiff command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codalotl/segdiff/internal/explain"
	"github.com/codalotl/segdiff/internal/viewer"
)

// Version is the segdiff version. It is a var so builds can override it with -ldflags "-X github.com/codalotl/segdiff/internal/cli.Version=...".
var Version = "0.3.0"

// Exit codes follow diff(1).
const (
	ExitSame        = 0
	ExitDifferences = 1
	ExitError       = 2
)

// RunOptions override the process environment. Nil or empty fields use the real one.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Getenv  func(string) string
	Home    string // Home directory for the user config file.
	WorkDir string // Start of the project config file search.

	CopyToClipboard func(text string) error
	Explainer       explain.Explainer // Used by the explain command instead of the configured OpenAI client.
	RunViewer       func(ctx context.Context, load viewer.LoadFunc, opts viewer.Options) error
}

// errDifferences ends a successful comparison that found differences.
var errDifferences = errors.New("documents differ")

// Run runs the CLI with args (typically os.Args) and returns the process exit code:
//   - 0: success; for compare, the documents are structurally equal.
//   - 1: compare found differences. The returned error is nil.
//   - 2: an error, including usage errors. The message has already been written to stderr.
func Run(args []string, opts *RunOptions) (int, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	a := newApp(*opts)

	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}
	root := a.rootCommand()
	root.SetArgs(argv)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return ExitSame, nil
	case errors.Is(err, errDifferences):
		return ExitDifferences, nil
	default:
		fmt.Fprintf(a.errOut, "segdiff: %v\n", err)
		return ExitError, err
	}
}

// app carries the resolved I/O and hooks for one Run.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	opts   RunOptions
}

func newApp(opts RunOptions) *app {
	a := &app{in: opts.In, out: opts.Out, errOut: opts.Err, opts: opts}
	if a.in == nil {
		a.in = os.Stdin
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.errOut == nil {
		a.errOut = os.Stderr
	}
	if a.opts.Getenv == nil {
		a.opts.Getenv = os.Getenv
	}
	return a
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "segdiff",
		Short:         "Structural diff for X12 and EDIFACT documents",
		Long:          "segdiff aligns two EDI documents segment by segment and reports added, removed, and modified segments.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       Version,
	}
	root.SetVersionTemplate("segdiff {{.Version}}\n")
	root.AddCommand(
		a.compareCommand(),
		a.viewCommand(),
		a.segmentsCommand(),
		a.explainCommand(),
		a.configCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the segdiff version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "segdiff %s\n", Version)
			return err
		},
	}
}
