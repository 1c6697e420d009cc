package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/launchcheck/internal/generator"
	"github.com/roach88/launchcheck/internal/harness"
	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/launch"
	"github.com/roach88/launchcheck/internal/validate"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Tree  bool     // print each run's action tree
	Fixed []string // name=value arguments available to every run
}

// TreeLine is one node of a printed action tree.
type TreeLine struct {
	Depth int    `json:"depth"`
	Node  string `json:"node"`
}

// RunListing describes one expanded test run.
type RunListing struct {
	Index int         `json:"index"`
	Label string      `json:"label"`
	ID    string      `json:"id"`
	Args  ir.IRObject `json:"args"`
	Tree  []TreeLine  `json:"tree,omitempty"`
	Error string      `json:"error,omitempty"` // why the tree could not be produced
}

// RunsReport lists the test runs a file expands to.
type RunsReport struct {
	Path      string       `json:"path"`
	Generator string       `json:"generator"`
	Params    []string     `json:"params"`
	Sweeps    []string     `json:"sweeps"`
	Runs      []RunListing `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs <file>",
		Short: "List the test runs a file expands to",
		Long: `List the test runs a test file expands to, in execution order.

Each run shows its index, label and content-addressed ID. With --tree the
generator is invoked for each run whose parameters match and the
resulting action tree is printed.

Examples:
  launchcheck runs tests/talker.yaml
  launchcheck runs tests/talker.yaml --tree --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print each run's action tree")
	cmd.Flags().StringArrayVar(&opts.Fixed, "fixed", nil, "argument available to every run (name=value, repeatable)")

	return cmd
}

func runRuns(opts *RunsOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	fixed, err := parseFixedArgs(opts.Fixed)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	tf, err := harness.LoadTestFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	target, err := tf.Target()
	if err != nil {
		return outputLoadError(formatter, err)
	}

	gen := target.Generator()
	report := RunsReport{
		Path:      path,
		Generator: gen.Name(),
		Params:    gen.Params(),
		Sweeps:    generator.SweptNames(target),
		Runs:      []RunListing{},
	}
	if report.Sweeps == nil {
		report.Sweeps = []string{}
	}

	v := validate.New(validate.WithFixedArgs(fixed))
	for _, run := range generator.Expand(target) {
		listing := RunListing{
			Index: run.Index,
			Label: run.Label,
			ID:    run.ID,
			Args:  run.Args,
		}
		if opts.Tree {
			listing.Tree, listing.Error = describeRun(ctx, v, run)
		}
		report.Runs = append(report.Runs, listing)
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	outputRunsText(formatter.Writer, report)
	return nil
}

// describeRun matches and invokes run and flattens its action tree. A run
// whose parameters do not match is reported instead of invoked.
func describeRun(ctx context.Context, v *validate.Validator, run generator.TestRun) ([]TreeLine, string) {
	args := v.Available(run)
	if err := validate.Match(run.Generator, args.SortedKeys()); err != nil {
		return nil, err.Error()
	}
	desc, err := run.Generator.Invoke(ctx, args)
	if err != nil {
		return nil, err.Error()
	}
	if desc == nil {
		return nil, "generator returned no description"
	}

	var lines []TreeLine
	launch.Walk(desc, func(e launch.Entity, depth int) bool {
		lines = append(lines, TreeLine{Depth: depth, Node: launch.Describe(e)})
		return true
	})
	return lines, ""
}

func outputRunsText(w io.Writer, r RunsReport) {
	fmt.Fprintf(w, "%s (%s)\n", r.Generator, r.Path)
	fmt.Fprintf(w, "  params: [%s]\n", strings.Join(r.Params, ", "))
	if len(r.Sweeps) > 0 {
		fmt.Fprintf(w, "  sweeps: [%s]\n", strings.Join(r.Sweeps, ", "))
	}
	fmt.Fprintf(w, "  %d run(s)\n", len(r.Runs))

	for _, run := range r.Runs {
		label := run.Label
		if label == "" {
			label = "(no parameters)"
		}
		fmt.Fprintf(w, "\n#%d %s\n", run.Index, label)
		fmt.Fprintf(w, "   id: %s\n", shortID(run.ID))
		if run.Error != "" {
			fmt.Fprintf(w, "   ✗ %s\n", run.Error)
		}
		for _, line := range run.Tree {
			fmt.Fprintf(w, "   %s%s\n", strings.Repeat("  ", line.Depth), line.Node)
		}
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// outputLoadError reports a test file that could not be loaded.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var le *harness.LoadError
	if errors.As(err, &le) {
		code = le.Code
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, "failed to load test file", err)
}
