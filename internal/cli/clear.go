package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newClearCmd creates the "stagehand clear" command.
func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the run-state for the current slot",
		Long: `Delete the persisted run-state for the slot so the next start begins a
fresh run. The workflow definition files are untouched. Clearing a slot that
has no run-state is a no-op.`,
		Example: `  # Reset the default slot
  stagehand clear

  # Reset a named slot
  stagehand clear --slot nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.Engine.ClearState(); err != nil {
				return fmt.Errorf("clearing run-state: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Cleared run-state for slot %q.\n", app.Slot)
			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(newClearCmd())
}
