package workflow

import "time"

// TransitionEvent lifecycle type constants. String values are used so events
// round-trip cleanly through JSON log output.
const (
	// EvWorkflowStarted is emitted when a fresh run-state is created.
	EvWorkflowStarted = "workflow_started"

	// EvWorkflowResumed is emitted when start finds and keeps an existing
	// run-state.
	EvWorkflowResumed = "workflow_resumed"

	// EvPhaseAdvanced is emitted when a transition commits a new current
	// phase.
	EvPhaseAdvanced = "phase_advanced"

	// EvWorkflowCompleted is emitted when a transition resolves to a
	// terminal phase and the run-state is marked completed.
	EvWorkflowCompleted = "workflow_completed"

	// EvTransitionFailed is emitted when a transition fails without
	// mutating state.
	EvTransitionFailed = "transition_failed"
)

// TransitionEvent describes one engine lifecycle milestone. Events are
// broadcast on the engine's optional event channel with a non-blocking send,
// so a slow consumer never stalls a transition.
type TransitionEvent struct {
	Type       string    `json:"type"`
	WorkflowID string    `json:"workflow_id"`
	Phase      string    `json:"phase"`
	NextPhase  string    `json:"next_phase,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	Message    string    `json:"message"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
