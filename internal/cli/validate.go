package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/launchcheck/internal/harness"
	"github.com/roach88/launchcheck/internal/store"
	"github.com/roach88/launchcheck/internal/testutil"
	"github.com/roach88/launchcheck/internal/validate"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Fixed  []string // name=value arguments available to every run
	DB     string   // optional history database
	Filter string   // file name glob applied inside directories
}

// FileReport is the validation outcome of one test file.
type FileReport struct {
	Path   string          `json:"path"`
	Pass   bool            `json:"pass"`
	Result *harness.Result `json:"result,omitempty"`
	Error  *CLIError       `json:"error,omitempty"` // set when the file failed to load
}

// ValidateReport summarizes a validate invocation.
type ValidateReport struct {
	Files      []FileReport `json:"files"`
	Total      int          `json:"total"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Runs       int          `json:"runs"`
	RunsFailed int          `json:"runs_failed"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate test files before launch",
		Long: `Validate launch test files without launching anything.

Each file is loaded and its generator expanded into test runs. Every run
is checked on its own: parameters must match the available arguments
exactly, and the generated action tree must contain a ReadyToTest
sentinel at some depth. Directories are searched for .yaml, .yml and
.cue files.

Exit codes:
  0 - Every run of every file is valid
  1 - A file failed to load or a run failed validation
  2 - Command error (invalid paths, bad flags, database errors)

Examples:
  launchcheck validate tests/talker.yaml
  launchcheck validate tests/ --filter "talker*"
  launchcheck validate tests/ --fixed proc_output=stub --db history.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Fixed, "fixed", nil, "argument available to every run (name=value, repeatable)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record outcomes in this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter files in directories by glob pattern")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	ctx := cmd.Context()

	fixed, err := parseFixedArgs(opts.Fixed)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	files, err := collectTestFiles(paths, opts.Filter)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, "no test files found")
	}

	hopts := []harness.Option{
		harness.WithValidator(validate.New(
			validate.WithFixedArgs(fixed),
			validate.WithLogger(logger),
		)),
		harness.WithLogger(logger),
	}
	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		lastSeq, err := st.GetLastSeq(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read database", err)
		}
		hopts = append(hopts,
			harness.WithStore(st),
			harness.WithClock(testutil.NewDeterministicClockAt(lastSeq)),
		)
	}
	h := harness.New(hopts...)

	report := ValidateReport{
		Files: make([]FileReport, 0, len(files)),
		Total: len(files),
	}
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)

		fr := FileReport{Path: path}
		result, err := h.RunFile(ctx, path)
		switch {
		case err == nil:
			fr.Result = result
			fr.Pass = result.Pass
			report.Runs += len(result.Runs)
			report.RunsFailed += len(result.Failed())
		default:
			var le *harness.LoadError
			if !errors.As(err, &le) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("validating %s", path), err)
			}
			fr.Error = &CLIError{Code: le.Code, Message: le.Error()}
		}

		if fr.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Files = append(report.Files, fr)
	}

	if opts.Format == "json" {
		if report.Failed > 0 {
			if err := formatter.Failure(ErrCodeValidationFailed, summaryLine(report), report); err != nil {
				return err
			}
			return NewExitError(ExitFailure, summaryLine(report))
		}
		return formatter.Success(report)
	}

	outputValidateText(formatter.Writer, report)
	if report.Failed > 0 {
		return NewExitError(ExitFailure, summaryLine(report))
	}
	return nil
}

func summaryLine(r ValidateReport) string {
	return fmt.Sprintf("%d file(s), %d run(s): %d file(s) failed, %d run(s) failed",
		r.Total, r.Runs, r.Failed, r.RunsFailed)
}

func outputValidateText(w io.Writer, report ValidateReport) {
	for _, fr := range report.Files {
		switch {
		case fr.Error != nil:
			fmt.Fprintf(w, "✗ %s\n", fr.Path)
			fmt.Fprintf(w, "  Load error: %s\n", fr.Error.Message)
		case fr.Pass:
			fmt.Fprintf(w, "✓ %s (%s): %d run(s) valid\n", fr.Path, fr.Result.Generator, len(fr.Result.Runs))
		default:
			fmt.Fprintf(w, "✗ %s (%s)\n", fr.Path, fr.Result.Generator)
			for _, msg := range fr.Result.Errors {
				fmt.Fprintf(w, "  %s\n", msg)
			}
		}
	}

	fmt.Fprintln(w)
	if report.Failed == 0 {
		fmt.Fprintf(w, "✓ All %d file(s) valid (%d run(s))\n", report.Total, report.Runs)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", summaryLine(report))
}
