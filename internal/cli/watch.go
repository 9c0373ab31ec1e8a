package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parkerhale/stagehand/internal/buildinfo"
	"github.com/parkerhale/stagehand/internal/tui"
	"github.com/parkerhale/stagehand/internal/workflow"
)

var watchCmd = newWatchCmd()

type watchFlags struct {
	interval time.Duration
}

var watchOpts watchFlags

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard for the active workflow",
		Long: `Watch opens a full-screen dashboard showing the active workflow's
phases, branch history, and transition log. The run-state is re-read on an
interval, so transitions made by other stagehand processes appear as they
commit. Press q or Ctrl+C to exit.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchOpts.interval, "interval", tui.DefaultPollInterval,
		"how often to re-read the run-state")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch wires the engine's event channel and the run-state poller into
// the dashboard and blocks until the user quits or a signal arrives.
func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Buffered so the engine's non-blocking emit never drops an event
	// during a render.
	events := make(chan workflow.TransitionEvent, 64)

	app, err := newAppContext(workflow.WithEventChannel(events))
	if err != nil {
		return err
	}

	cfg := tui.AppConfig{
		Version:      buildinfo.Version,
		ProjectName:  app.Config.Project.Name,
		Slot:         app.Slot,
		Poll:         func() (tui.StatusSnapshot, error) { return buildSnapshot(app) },
		PollInterval: watchOpts.interval,
		Events:       events,
		Ctx:          ctx,
	}

	return tui.RunTUI(cfg)
}

// buildSnapshot reads the slot's run-state and, when a definition is
// available, derives per-phase display statuses from the declaration order.
func buildSnapshot(app *appContext) (tui.StatusSnapshot, error) {
	state, err := app.Engine.Status()
	if err != nil {
		return tui.StatusSnapshot{}, err
	}
	if state == nil {
		return tui.StatusSnapshot{}, nil
	}

	snap := tui.StatusSnapshot{
		Active:        true,
		WorkflowID:    state.WorkflowID,
		CurrentPhase:  state.CurrentPhase,
		Completed:     state.Completed,
		BranchHistory: state.BranchHistory,
		UpdatedAt:     state.UpdatedAt,
	}

	// The definition may have been edited out from under a running
	// workflow; the snapshot then carries run-state fields only.
	def, err := app.Registry.Load(state.WorkflowID)
	if err != nil || def == nil {
		return snap, nil
	}

	snap.WorkflowName = def.Name
	snap.Phases = phaseRows(def, state)
	return snap, nil
}

// phaseRows maps definition phases to display rows. Declaration order is an
// approximation for branched graphs, matching the status command's progress
// rendering.
func phaseRows(def *workflow.WorkflowDefinition, state *workflow.WorkflowState) []tui.PhaseRow {
	idx := phaseIndexOf(def, state.CurrentPhase)

	rows := make([]tui.PhaseRow, len(def.Phases))
	for i, p := range def.Phases {
		status := tui.PhasePending
		switch {
		case state.Completed && i <= idx:
			status = tui.PhaseCompleted
		case i == idx:
			status = tui.PhaseActive
		case i < idx:
			status = tui.PhaseCompleted
		}
		rows[i] = tui.PhaseRow{ID: p.ID, Name: p.Name, Status: status}
	}
	return rows
}
