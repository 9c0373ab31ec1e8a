package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// ---------------------------------------------------------------------------
// Engine Messages
// ---------------------------------------------------------------------------

// TransitionMsg wraps a workflow.TransitionEvent received from the engine's
// event channel. It carries the raw event so sub-models can classify it
// themselves.
type TransitionMsg struct {
	Event workflow.TransitionEvent
}

// ---------------------------------------------------------------------------
// Snapshot Messages
// ---------------------------------------------------------------------------

// PhaseRow is one entry in the phase panel: a phase identifier plus its
// display status relative to the current run-state.
type PhaseRow struct {
	// ID is the phase identifier from the workflow definition.
	ID string
	// Name is the human-readable phase name, if the definition provides one.
	Name string
	// Status classifies the row for indicator rendering.
	Status PhaseStatus
}

// StatusSnapshot is a point-in-time view of the watched slot. The dashboard
// polls for snapshots on a timer because transitions are driven by other
// processes; the event channel only covers transitions made in-process.
type StatusSnapshot struct {
	// Active reports whether the slot holds a run-state.
	Active bool
	// WorkflowID identifies the running definition.
	WorkflowID string
	// WorkflowName is the definition's display name.
	WorkflowName string
	// CurrentPhase is the run-state's current phase identifier.
	CurrentPhase string
	// Completed reports whether the workflow reached a terminal phase.
	Completed bool
	// Phases lists every phase in definition declaration order with its
	// display status.
	Phases []PhaseRow
	// BranchHistory holds the recorded conditional transitions, oldest
	// first.
	BranchHistory []string
	// UpdatedAt is the run-state's last modification time.
	UpdatedAt time.Time
}

// SnapshotMsg delivers the result of one poll. Err is set when the poll
// failed; the previous snapshot stays on screen in that case.
type SnapshotMsg struct {
	Snapshot StatusSnapshot
	Err      error
}

// TickMsg is emitted by the poll timer.
type TickMsg struct {
	Time time.Time
}

// tickCmd schedules the next TickMsg after the given interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
