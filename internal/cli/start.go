package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// startFlags holds the flag values for the start command.
type startFlags struct {
	Resume bool     // --resume keeps an existing run instead of starting over
	Meta   []string // --meta key=value, repeatable
	JSON   bool     // --json for structured output
}

// newStartCmd creates the "stagehand start" command.
func newStartCmd() *cobra.Command {
	var flags startFlags

	cmd := &cobra.Command{
		Use:   "start <workflow-id>",
		Short: "Activate a workflow in the current slot",
		Long: `Activate the named workflow definition. A fresh run-state is created at
the definition's first phase, overwriting any previous run in the slot.

With --resume, an existing run for the slot is kept as-is and the command
reports where it left off; when no run exists, --resume starts fresh.

Metadata passed with --meta is stored on the run-state and is available to
metadata_value branch conditions.`,
		Example: `  # Start the content pipeline from its first phase
  stagehand start content-pipeline

  # Start with routing metadata
  stagehand start content-pipeline --meta priority=high --meta channel=blog

  # Pick up an interrupted run
  stagehand start content-pipeline --resume`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Resume, "resume", false, "Keep an existing run for the slot instead of starting over")
	cmd.Flags().StringArrayVar(&flags.Meta, "meta", nil, "Run metadata as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Output the run-state as JSON to stdout")

	return cmd
}

func init() {
	rootCmd.AddCommand(newStartCmd())
}

// runStart activates the workflow and reports the resulting run-state.
func runStart(cmd *cobra.Command, workflowID string, flags startFlags) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	meta, err := parseMetaFlags(flags.Meta)
	if err != nil {
		return err
	}

	// Configured default metadata sits below command-line values.
	if len(app.Config.Engine.Metadata) > 0 {
		merged := make(map[string]any, len(app.Config.Engine.Metadata)+len(meta))
		for k, v := range app.Config.Engine.Metadata {
			merged[k] = v
		}
		for k, v := range meta {
			merged[k] = v
		}
		meta = merged
	}

	state, err := app.Engine.StartWorkflow(workflowID, flags.Resume, meta)
	if err != nil {
		return err
	}

	if flags.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Workflow %q active in slot %q\n", state.WorkflowID, app.Slot)
	fmt.Fprintf(out, "Current phase: %s\n", state.CurrentPhase)
	return nil
}
