package workflow

import "time"

// WorkflowState is the mutable run-state of a single workflow instance.
// It is persisted as JSON to .stagehand/state/<slot>.json after every
// committed transition.
type WorkflowState struct {
	WorkflowID   string `json:"workflow_id"`
	CurrentPhase string `json:"current_phase"`

	// Metadata is supplied at start and never mutated by the engine. It is
	// opaque beyond metadata_value condition lookups.
	Metadata map[string]any `json:"metadata"`

	// BranchHistory is the ordered, append-only audit trail of conditional
	// transitions, e.g. "phase_0 -> phase_1_video (video)".
	BranchHistory []string `json:"branch_history"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Completed bool      `json:"completed"`
}

// NewWorkflowState creates a fresh run-state positioned at initialPhase.
// BranchHistory is initialized to an empty slice and Metadata to an empty
// map so JSON serialization produces [] and {} rather than null.
func NewWorkflowState(workflowID, initialPhase string, metadata map[string]any) *WorkflowState {
	if metadata == nil {
		metadata = map[string]any{}
	}
	now := time.Now()
	return &WorkflowState{
		WorkflowID:    workflowID,
		CurrentPhase:  initialPhase,
		Metadata:      metadata,
		BranchHistory: []string{},
		StartedAt:     now,
		UpdatedAt:     now,
	}
}

// AppendHistory appends a transition record and refreshes UpdatedAt.
func (ws *WorkflowState) AppendHistory(entry string) {
	ws.BranchHistory = append(ws.BranchHistory, entry)
	ws.UpdatedAt = time.Now()
}

// LastTransition returns the most recent branch history entry, or an empty
// string if no conditional transition has occurred.
func (ws *WorkflowState) LastTransition() string {
	if len(ws.BranchHistory) == 0 {
		return ""
	}
	return ws.BranchHistory[len(ws.BranchHistory)-1]
}
