// Package workflow implements the stagehand phase engine: the definition
// registry, the run-state store, the condition evaluator, and the transition
// engine that ties them together.
//
// A workflow definition is a static graph of phases loaded from an external
// Source (YAML files by default) and cached by the Registry until an explicit
// cache clear. The run-state of the active workflow lives in a slot of the
// StateStore and is mutated only by Engine transitions. Callers drive
// progress one step at a time with Engine.TransitionToNextPhase; the engine
// decides transitions but never executes phase work.
//
// Conditional phases branch on external signals evaluated at transition
// time: the presence of a file, the content of a file, or a metadata value,
// optionally classified through an anchored regular expression. Evaluation
// re-reads the filesystem on every call, so a human or agent advances the
// workflow simply by writing the expected file.
package workflow
