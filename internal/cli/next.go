package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// nextFlags holds the flag values for the next command.
type nextFlags struct {
	JSON bool // --json for structured output
}

// newNextCmd creates the "stagehand next" command.
func newNextCmd() *cobra.Command {
	var flags nextFlags

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Advance the active workflow by exactly one phase",
		Long: `Resolve the current phase's transition and commit the result. A phase
with a conditional transition is routed by evaluating its condition against
the filesystem and run metadata at this moment; a phase with a static
transition moves to its declared successor; a phase with neither completes
the workflow.

A failed transition (unresolved condition, missing definition) changes
nothing: fix the cause and run next again.`,
		Example: `  # Advance one phase
  stagehand next

  # Structured result for scripting
  stagehand next --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Output the transition result as JSON to stdout")

	return cmd
}

func init() {
	rootCmd.AddCommand(newNextCmd())
}

// runNext advances the workflow one phase and reports the outcome.
func runNext(cmd *cobra.Command, flags nextFlags) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	result, err := app.Engine.TransitionToNextPhase()
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := cmd.ErrOrStderr()
	if result.Completed {
		fmt.Fprintln(out, "Workflow completed.")
		return nil
	}
	if result.Branch != "" {
		fmt.Fprintf(out, "Advanced to phase %s (branch: %s)\n", result.NewPhase, result.Branch)
	} else {
		fmt.Fprintf(out, "Advanced to phase %s\n", result.NewPhase)
	}
	return nil
}
