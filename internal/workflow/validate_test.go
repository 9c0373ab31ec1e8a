package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strp is a shorthand for taking the address of a string literal.
func strp(s string) *string { return &s }

// validDef returns a small definition that passes all structural checks.
func validDef() *WorkflowDefinition {
	return &WorkflowDefinition{
		ID:      "wf",
		Name:    "Workflow",
		Version: "1.0",
		Phases: []Phase{
			{
				ID: "phase_0",
				ConditionalNext: &ConditionalNext{
					Condition: Condition{Type: ConditionFileContent, Source: "signal.txt", Pattern: `^(a|b)$`},
					Branches:  map[string]string{"a": "phase_a", "b": "phase_b"},
					DefaultNext: "phase_err",
				},
			},
			{ID: "phase_a", NextPhase: strp("phase_done")},
			{ID: "phase_b", NextPhase: strp("phase_done")},
			{ID: "phase_err", NextPhase: strp("phase_done")},
			{ID: "phase_done"},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	assert.Empty(t, ValidateDefinition(validDef()))
}

func TestValidateDefinition_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkflowDefinition)
		wantMsg string
	}{
		{
			name:    "no phases",
			mutate:  func(d *WorkflowDefinition) { d.Phases = nil },
			wantMsg: "has no phases",
		},
		{
			name: "duplicate phase id",
			mutate: func(d *WorkflowDefinition) {
				d.Phases = append(d.Phases, Phase{ID: "phase_a"})
			},
			wantMsg: `duplicate phase id "phase_a"`,
		},
		{
			name: "phase with no id",
			mutate: func(d *WorkflowDefinition) {
				d.Phases = append(d.Phases, Phase{})
			},
			wantMsg: "phase with no id",
		},
		{
			name: "both next_phase and conditional_next",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].NextPhase = strp("phase_a")
			},
			wantMsg: "declares both",
		},
		{
			name: "next_phase target unknown",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[1].NextPhase = strp("ghost")
			},
			wantMsg: `references unknown phase "ghost"`,
		},
		{
			name: "branch target unknown",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].ConditionalNext.Branches["c"] = "ghost"
			},
			wantMsg: `branch "c"`,
		},
		{
			name: "default_next target unknown",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].ConditionalNext.DefaultNext = "ghost"
			},
			wantMsg: "default_next",
		},
		{
			name: "unknown condition type",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].ConditionalNext.Condition.Type = "database_row"
			},
			wantMsg: `unknown type "database_row"`,
		},
		{
			name: "condition missing source",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].ConditionalNext.Condition.Source = ""
			},
			wantMsg: "no source",
		},
		{
			name: "pattern does not compile",
			mutate: func(d *WorkflowDefinition) {
				d.Phases[0].ConditionalNext.Condition.Pattern = `^(unclosed`
			},
			wantMsg: "does not compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDef()
			tt.mutate(def)

			errs := ValidateDefinition(def)
			require.NotEmpty(t, errs)

			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected an error containing %q, got %v", tt.wantMsg, errs)
		})
	}
}

func TestValidateDefinition_CollectsAllErrors(t *testing.T) {
	def := validDef()
	def.Phases[0].ConditionalNext.Condition.Type = "bogus"
	def.Phases[0].ConditionalNext.DefaultNext = "ghost"
	def.Phases[1].NextPhase = strp("also-ghost")

	errs := ValidateDefinition(def)
	assert.GreaterOrEqual(t, len(errs), 3)
}
