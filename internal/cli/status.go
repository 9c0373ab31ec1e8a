package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	JSON bool // --json for structured output
}

// statusOutput is the JSON output type for the status command.
type statusOutput struct {
	Slot          string         `json:"slot"`
	Active        bool           `json:"active"`
	WorkflowID    string         `json:"workflow_id,omitempty"`
	WorkflowName  string         `json:"workflow_name,omitempty"`
	CurrentPhase  string         `json:"current_phase,omitempty"`
	PhaseIndex    int            `json:"phase_index,omitempty"`
	PhaseCount    int            `json:"phase_count,omitempty"`
	Completed     bool           `json:"completed,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	BranchHistory []string       `json:"branch_history,omitempty"`
	StartedAt     string         `json:"started_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// newStatusCmd creates the "stagehand status" command.
func newStatusCmd() *cobra.Command {
	var flags statusFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active run's phase, metadata, and branch history",
		Long: `Display the run-state for the current slot: the active workflow, the
current phase with a position bar, run metadata, and the full branch history
in transition order.

Use --json for structured output suitable for scripting.`,
		Example: `  # Human-readable status
  stagehand status

  # Structured JSON output
  stagehand status --json

  # Status of a named slot
  stagehand status --slot nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Output structured JSON to stdout")

	return cmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

// runStatus loads the run-state and renders it.
func runStatus(cmd *cobra.Command, flags statusFlags) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	state, err := app.Engine.Status()
	if err != nil {
		return fmt.Errorf("loading run-state: %w", err)
	}

	// Definition lookup is best-effort: status still renders when the
	// definition has been edited out from under the run.
	var def *workflow.WorkflowDefinition
	if state != nil {
		def, _ = app.Registry.Load(state.WorkflowID)
	}

	if flags.JSON {
		return renderStatusJSON(cmd, app.Slot, state, def)
	}

	out := cmd.ErrOrStderr()
	if state == nil {
		fmt.Fprintf(out, "No active workflow in slot %q.\n", app.Slot)
		return nil
	}

	fmt.Fprintln(out, renderStatusSummary(app.Slot, state, def))
	return nil
}

// renderStatusJSON serialises the run-state to JSON and writes it to stdout.
func renderStatusJSON(cmd *cobra.Command, slot string, state *workflow.WorkflowState, def *workflow.WorkflowDefinition) error {
	out := statusOutput{Slot: slot}
	if state != nil {
		out.Active = true
		out.WorkflowID = state.WorkflowID
		out.CurrentPhase = state.CurrentPhase
		out.Completed = state.Completed
		out.Metadata = state.Metadata
		out.BranchHistory = state.BranchHistory
		out.StartedAt = state.StartedAt.Format("2006-01-02T15:04:05Z07:00")
		out.UpdatedAt = state.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		if def != nil {
			out.WorkflowName = def.Name
			out.PhaseIndex = phaseIndexOf(def, state.CurrentPhase) + 1
			out.PhaseCount = len(def.Phases)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderStatusSummary returns the styled human-readable status block.
//
//	Stagehand Status - slot "default"
//	=================================
//	Workflow: Content Pipeline (content-pipeline)
//	Phase:    phase_2 (6 of 8)
//	████████████░░░░░░░░ 75%
func renderStatusSummary(slot string, state *workflow.WorkflowState, def *workflow.WorkflowDefinition) string {
	const progressBarWidth = 40

	headerStyle := lipgloss.NewStyle().Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))   // green
	branchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue

	title := fmt.Sprintf("Stagehand Status - slot %q", slot)
	sep := strings.Repeat("=", len(title))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(sep)
	sb.WriteString("\n")

	if def != nil {
		sb.WriteString(fmt.Sprintf("Workflow: %s (%s)\n", def.Name, state.WorkflowID))
	} else {
		sb.WriteString(fmt.Sprintf("Workflow: %s (definition unavailable)\n", state.WorkflowID))
	}

	if state.Completed {
		sb.WriteString(doneStyle.Render(fmt.Sprintf("Completed at phase %s", state.CurrentPhase)))
		sb.WriteString("\n")
	} else if def != nil {
		idx := phaseIndexOf(def, state.CurrentPhase)
		total := len(def.Phases)
		sb.WriteString(fmt.Sprintf("Phase:    %s (%d of %d)\n", state.CurrentPhase, idx+1, total))

		// Static position bar using bubbles/progress ViewAs. Position is
		// declaration order, not path length, so it is a rough gauge only.
		pct := 0.0
		if total > 0 {
			pct = float64(idx+1) / float64(total)
		}
		bar := progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(progressBarWidth),
			progress.WithoutPercentage(),
		)
		sb.WriteString(bar.ViewAs(pct))
		sb.WriteString(fmt.Sprintf(" %.0f%%\n", pct*100))
	} else {
		sb.WriteString(fmt.Sprintf("Phase:    %s\n", state.CurrentPhase))
	}

	// Metadata (sorted for determinism).
	if len(state.Metadata) > 0 {
		sb.WriteString("\nMetadata:\n")
		keys := make([]string, 0, len(state.Metadata))
		for k := range state.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s = %v\n", k, state.Metadata[k]))
		}
	}

	// Branch history in transition order.
	if len(state.BranchHistory) > 0 {
		sb.WriteString("\nBranch history:\n")
		for _, entry := range state.BranchHistory {
			sb.WriteString("  ")
			sb.WriteString(branchStyle.Render(entry))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// phaseIndexOf returns the declaration-order index of the phase id, or 0 when
// the phase is not found.
func phaseIndexOf(def *workflow.WorkflowDefinition, phaseID string) int {
	for i := range def.Phases {
		if def.Phases[i].ID == phaseID {
			return i
		}
	}
	return 0
}
