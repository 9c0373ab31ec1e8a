package workflow

// ConditionType identifies the kind of external signal a conditional
// transition inspects.
type ConditionType string

const (
	// ConditionFileContent reads a file and classifies its trimmed content.
	ConditionFileContent ConditionType = "file_content"

	// ConditionFileExists checks for the presence of a file and always
	// yields the literal branch key "true" or "false".
	ConditionFileExists ConditionType = "file_exists"

	// ConditionMetadataValue looks up a key in the run-state metadata and
	// classifies its stringified value.
	ConditionMetadataValue ConditionType = "metadata_value"
)

// WorkflowDefinition is the static, versioned graph of phases for a named
// workflow. Definitions are loaded from an external Source and are immutable
// for the lifetime of a registry cache generation.
type WorkflowDefinition struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Version     string  `yaml:"version" json:"version"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Phases      []Phase `yaml:"phases" json:"phases"`

	// Fingerprint is the xxhash of the raw definition bytes, set by the
	// Source at load time. It is not part of the definition document.
	Fingerprint uint64 `yaml:"-" json:"-"`
}

// FirstPhase returns the initial phase of the definition. It assumes the
// definition has passed validation (non-empty phase list).
func (d *WorkflowDefinition) FirstPhase() *Phase {
	return &d.Phases[0]
}

// PhaseByID returns the phase with the given id, or nil if no phase matches.
func (d *WorkflowDefinition) PhaseByID(id string) *Phase {
	for i := range d.Phases {
		if d.Phases[i].ID == id {
			return &d.Phases[i]
		}
	}
	return nil
}

// Phase is one node in a workflow graph. A phase is exactly one of:
//   - terminal: NextPhase is nil and ConditionalNext is nil
//   - statically linked: NextPhase names the successor phase
//   - conditionally branching: ConditionalNext picks the successor at
//     transition time
type Phase struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// RequiredArtifacts lists artifacts the phase is expected to produce.
	// Informational only; the engine does not verify them.
	RequiredArtifacts []string `yaml:"required_artifacts,omitempty" json:"required_artifacts,omitempty"`

	NextPhase       *string          `yaml:"next_phase,omitempty" json:"next_phase,omitempty"`
	ConditionalNext *ConditionalNext `yaml:"conditional_next,omitempty" json:"conditional_next,omitempty"`
}

// Terminal reports whether the phase has no outgoing transition.
func (p *Phase) Terminal() bool {
	return p.NextPhase == nil && p.ConditionalNext == nil
}

// ConditionalNext is a decision point: the condition is evaluated at
// transition time and the resulting branch key selects the target phase.
type ConditionalNext struct {
	Condition Condition `yaml:"condition" json:"condition"`

	// Branches maps branch keys to target phase ids.
	Branches map[string]string `yaml:"branches" json:"branches"`

	// DefaultNext is the fallback target when no branch key matches.
	// Empty means no fallback; an unmatched evaluation then fails the
	// transition.
	DefaultNext string `yaml:"default_next,omitempty" json:"default_next,omitempty"`
}

// Condition describes the external signal a conditional transition inspects.
type Condition struct {
	Type ConditionType `yaml:"type" json:"type"`

	// Source is a filesystem path for file_content/file_exists, or a
	// metadata key name for metadata_value.
	Source string `yaml:"source" json:"source"`

	// Pattern is an anchored regular expression applied to the extracted
	// value. Only meaningful for file_content and metadata_value.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}
