package workflow

import "errors"

// Sentinel errors for every failure mode of the phase engine. All engine
// operations report failures by wrapping one of these, so callers can branch
// with errors.Is without parsing messages.
var (
	// ErrDefinitionNotFound indicates the definition source has no entry
	// for the requested workflow id.
	ErrDefinitionNotFound = errors.New("workflow definition not found")

	// ErrDefinitionInvalid indicates the definition failed to parse or
	// failed structural validation.
	ErrDefinitionInvalid = errors.New("workflow definition invalid")

	// ErrPhaseNotFound indicates a phase id does not exist in its
	// definition.
	ErrPhaseNotFound = errors.New("phase not found")

	// ErrNoActiveWorkflow indicates a transition or status mutation was
	// requested while no workflow is active.
	ErrNoActiveWorkflow = errors.New("no active workflow")

	// ErrConditionUnresolved indicates a conditional transition matched no
	// branch and the phase declares no default target.
	ErrConditionUnresolved = errors.New("condition unresolved")

	// ErrTerminalPhase indicates a transition was attempted on a workflow
	// that has already completed.
	ErrTerminalPhase = errors.New("workflow already completed")
)
