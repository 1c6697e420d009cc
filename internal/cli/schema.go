package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/launchcheck/internal/harness"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for test files",
		Long: `Print the JSON Schema (Draft 2020-12) that every test file is checked
against. Point an editor's YAML language server at it for completion.

Examples:
  launchcheck schema > testfile.schema.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := harness.JSONSchema()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to generate schema", err)
			}
			if rootOpts.Format == "json" {
				return newFormatter(rootOpts, cmd).Success(json.RawMessage(data))
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
