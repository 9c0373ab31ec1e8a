package workflow

import (
	"fmt"
	"regexp"
)

// knownConditionTypes is the set of condition types the evaluator supports.
var knownConditionTypes = map[ConditionType]bool{
	ConditionFileContent:   true,
	ConditionFileExists:    true,
	ConditionMetadataValue: true,
}

// ValidateDefinition checks a workflow definition for structural errors:
//   - the phase list is non-empty
//   - phase ids are unique within the definition
//   - no phase declares both next_phase and conditional_next
//   - every transition target (next_phase, branch values, default_next)
//     references a phase present in the same definition
//   - conditions carry a known type, a source, and a compilable pattern
//
// It returns all detected errors so callers receive a complete picture.
func ValidateDefinition(def *WorkflowDefinition) []error {
	var errs []error

	if def.ID == "" {
		errs = append(errs, fmt.Errorf("definition has no id"))
	}
	if len(def.Phases) == 0 {
		errs = append(errs, fmt.Errorf("definition %q has no phases", def.ID))
		return errs
	}

	// Build phase id set, flagging duplicates.
	ids := make(map[string]struct{}, len(def.Phases))
	for _, p := range def.Phases {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("definition %q contains a phase with no id", def.ID))
			continue
		}
		if _, dup := ids[p.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate phase id %q", p.ID))
			continue
		}
		ids[p.ID] = struct{}{}
	}

	exists := func(target string) bool {
		_, ok := ids[target]
		return ok
	}

	for i := range def.Phases {
		p := &def.Phases[i]

		if p.NextPhase != nil && p.ConditionalNext != nil {
			errs = append(errs, fmt.Errorf("phase %q declares both next_phase and conditional_next", p.ID))
		}

		if p.NextPhase != nil && !exists(*p.NextPhase) {
			errs = append(errs, fmt.Errorf("phase %q next_phase references unknown phase %q", p.ID, *p.NextPhase))
		}

		if p.ConditionalNext == nil {
			continue
		}
		cn := p.ConditionalNext

		if !knownConditionTypes[cn.Condition.Type] {
			errs = append(errs, fmt.Errorf("phase %q condition has unknown type %q", p.ID, cn.Condition.Type))
		}
		if cn.Condition.Source == "" {
			errs = append(errs, fmt.Errorf("phase %q condition has no source", p.ID))
		}
		if cn.Condition.Pattern != "" {
			if _, err := regexp.Compile(cn.Condition.Pattern); err != nil {
				errs = append(errs, fmt.Errorf("phase %q condition pattern does not compile: %v", p.ID, err))
			}
		}

		for key, target := range cn.Branches {
			if !exists(target) {
				errs = append(errs, fmt.Errorf("phase %q branch %q references unknown phase %q", p.ID, key, target))
			}
		}
		if cn.DefaultNext != "" && !exists(cn.DefaultNext) {
			errs = append(errs, fmt.Errorf("phase %q default_next references unknown phase %q", p.ID, cn.DefaultNext))
		}
	}

	return errs
}
