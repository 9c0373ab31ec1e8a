package workflow

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Engine ties the registry, state store, and condition evaluator together.
// It decides phase transitions one step at a time; it never executes phase
// work itself. Each transition is a single atomic read-decide-commit cycle
// against the engine's slot, and a failed transition never mutates state, so
// retrying after fixing the external condition is always safe.
type Engine struct {
	registry *Registry
	store    *StateStore
	slot     string
	events   chan<- TransitionEvent
	logger   *log.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithSlot selects the workflow identity slot the engine operates on.
// The default is DefaultSlot.
func WithSlot(slot string) EngineOption {
	return func(e *Engine) { e.slot = slot }
}

// WithEventChannel sets the channel on which the engine broadcasts
// TransitionEvents. The engine uses a non-blocking send so a slow consumer
// never stalls a transition.
func WithEventChannel(ch chan<- TransitionEvent) EngineOption {
	return func(e *Engine) { e.events = ch }
}

// WithLogger attaches a charmbracelet/log Logger to the engine. When nil
// the engine operates silently.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a phase engine over the given registry and state store.
func NewEngine(registry *Registry, store *StateStore, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		store:    store,
		slot:     DefaultSlot,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Slot returns the workflow identity slot this engine operates on.
func (e *Engine) Slot() string { return e.slot }

// TransitionResult reports the outcome of a successful transition.
type TransitionResult struct {
	// NewPhase is the committed current phase. Empty when the workflow
	// completed instead of moving to a new phase.
	NewPhase string `json:"new_phase,omitempty"`

	// Completed is true when the transition resolved to a terminal phase.
	Completed bool `json:"completed"`

	// Branch is the matched branch key for a conditional transition, or
	// "default" when the default path was taken. Empty for static
	// transitions.
	Branch string `json:"branch,omitempty"`

	// Message is a human-readable description of the transition.
	Message string `json:"message"`
}

// StartWorkflow activates the workflow id in the engine's slot. With resume
// false a fresh run-state is created at the definition's first phase,
// overwriting any prior state for the slot. With resume true an existing
// run-state is kept untouched and returned as-is; absent that, start behaves
// as a fresh start. The definition is resolved (and validated) before any
// state is written, so definition errors leave prior state intact.
func (e *Engine) StartWorkflow(id string, resume bool, metadata map[string]any) (*WorkflowState, error) {
	def, err := e.registry.Load(id)
	if err != nil {
		return nil, err
	}

	resumed := false
	state, err := e.store.Mutate(e.slot, func(cur *WorkflowState) (*WorkflowState, bool, error) {
		if resume && cur != nil {
			resumed = true
			return cur, false, nil
		}
		return NewWorkflowState(def.ID, def.FirstPhase().ID, metadata), true, nil
	})
	if err != nil {
		return nil, err
	}

	if resumed {
		e.log("workflow resumed", "workflow", def.ID, "phase", state.CurrentPhase, "slot", e.slot)
		e.emit(TransitionEvent{
			Type:       EvWorkflowResumed,
			WorkflowID: def.ID,
			Phase:      state.CurrentPhase,
			Message:    fmt.Sprintf("workflow %q resumed at phase %q", def.ID, state.CurrentPhase),
			Timestamp:  time.Now(),
		})
	} else {
		e.log("workflow started", "workflow", def.ID, "phase", state.CurrentPhase, "slot", e.slot)
		e.emit(TransitionEvent{
			Type:       EvWorkflowStarted,
			WorkflowID: def.ID,
			Phase:      state.CurrentPhase,
			Message:    fmt.Sprintf("workflow %q started at phase %q", def.ID, state.CurrentPhase),
			Timestamp:  time.Now(),
		})
	}
	return state, nil
}

// TransitionToNextPhase advances the active workflow by exactly one phase.
//
// The current phase's transition is resolved as follows: a conditional
// phase evaluates its condition against the filesystem and the run-state
// metadata, matching the resulting branch key against the branch table and
// falling back to the default target when no branch matches; a static phase
// moves to its declared next phase. A nil target completes the workflow.
//
// Conditional transitions are recorded in the branch history as
// "from -> to (key)", or "from -> to (default)" for the default path, so a
// default fallback is observably different from a branch match.
func (e *Engine) TransitionToNextPhase() (*TransitionResult, error) {
	var result *TransitionResult

	_, err := e.store.Mutate(e.slot, func(cur *WorkflowState) (*WorkflowState, bool, error) {
		if cur == nil {
			return nil, false, fmt.Errorf("%w in slot %q", ErrNoActiveWorkflow, e.slot)
		}
		if cur.Completed {
			return nil, false, fmt.Errorf("%w: workflow %q finished at phase %q",
				ErrTerminalPhase, cur.WorkflowID, cur.CurrentPhase)
		}

		def, err := e.registry.Load(cur.WorkflowID)
		if err != nil {
			return nil, false, err
		}
		phase, err := e.registry.GetPhase(def, cur.CurrentPhase)
		if err != nil {
			return nil, false, err
		}

		var target *string
		branch := ""
		if phase.ConditionalNext != nil {
			target, branch, err = e.resolveBranch(phase, cur)
			if err != nil {
				return nil, false, err
			}
		} else {
			target = phase.NextPhase
		}

		if target == nil {
			cur.Completed = true
			cur.UpdatedAt = time.Now()
			result = &TransitionResult{
				Completed: true,
				Message:   fmt.Sprintf("workflow %q completed at phase %q", cur.WorkflowID, cur.CurrentPhase),
			}
			return cur, true, nil
		}

		if branch != "" {
			cur.AppendHistory(fmt.Sprintf("%s -> %s (%s)", cur.CurrentPhase, *target, branch))
		}
		result = &TransitionResult{
			NewPhase: *target,
			Branch:   branch,
			Message:  fmt.Sprintf("transitioned from %q to %q", cur.CurrentPhase, *target),
		}
		cur.CurrentPhase = *target
		cur.UpdatedAt = time.Now()
		return cur, true, nil
	})
	if err != nil {
		e.log("transition failed", "slot", e.slot, "error", err)
		e.emit(TransitionEvent{
			Type:      EvTransitionFailed,
			Message:   "transition failed",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return nil, err
	}

	if result.Completed {
		e.log("workflow completed", "slot", e.slot)
		e.emit(TransitionEvent{
			Type:      EvWorkflowCompleted,
			Message:   result.Message,
			Timestamp: time.Now(),
		})
	} else {
		e.log("phase advanced", "slot", e.slot, "phase", result.NewPhase, "branch", result.Branch)
		e.emit(TransitionEvent{
			Type:      EvPhaseAdvanced,
			NextPhase: result.NewPhase,
			Branch:    result.Branch,
			Message:   result.Message,
			Timestamp: time.Now(),
		})
	}
	return result, nil
}

// resolveBranch evaluates a conditional phase's condition and returns the
// target phase id plus the branch label to record ("default" for the
// fallback path). Returns ErrConditionUnresolved when no branch matches and
// the phase has no default target.
func (e *Engine) resolveBranch(phase *Phase, state *WorkflowState) (*string, string, error) {
	cn := phase.ConditionalNext

	key, ok := Evaluate(cn.Condition, EvalContext{Metadata: state.Metadata})
	if ok {
		if target, hit := cn.Branches[key]; hit {
			t := target
			return &t, key, nil
		}
	}

	if cn.DefaultNext != "" {
		t := cn.DefaultNext
		return &t, "default", nil
	}

	if !ok {
		return nil, "", fmt.Errorf("%w: phase %q: condition %s on %q yielded no value and no default is set",
			ErrConditionUnresolved, phase.ID, cn.Condition.Type, cn.Condition.Source)
	}
	return nil, "", fmt.Errorf("%w: phase %q: no branch for key %q and no default is set",
		ErrConditionUnresolved, phase.ID, key)
}

// Status returns the active run-state for the engine's slot, or nil when no
// workflow is active. Absence is not an error.
func (e *Engine) Status() (*WorkflowState, error) {
	return e.store.Load(e.slot)
}

// ClearState removes the run-state for the engine's slot entirely.
func (e *Engine) ClearState() error {
	if err := e.store.Clear(e.slot); err != nil {
		return err
	}
	e.log("state cleared", "slot", e.slot)
	return nil
}

// ClearCache drops all cached definitions so externally edited workflow
// files take effect on the next load.
func (e *Engine) ClearCache() {
	e.registry.ClearCache()
	e.log("definition cache cleared")
}

// emit sends ev on the event channel with a non-blocking select. No-op when
// no channel is configured.
func (e *Engine) emit(ev TransitionEvent) {
	if e.events == nil {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

// log writes a structured log message when a logger is attached.
func (e *Engine) log(msg string, kvs ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Info(msg, kvs...)
}
