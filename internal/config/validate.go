package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates an informational validation issue; the configuration works
	// but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "project.definitions_dir"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any issue has warning severity.
func (vr *ValidationResult) HasWarnings() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

// recognizedLogLevels is the set of valid values for project.log_level.
var recognizedLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// validSlotName matches slot names that are safe as file name stems.
var validSlotName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validate checks the configuration for correctness and completeness.
// It performs structural validation, semantic validation, and unknown key detection.
//
// Parameters:
//   - cfg: the configuration to validate
//   - meta: TOML metadata from BurntSushi/toml (may be nil if no file was loaded)
//
// Returns validation results. Check HasErrors() to determine if the config is usable.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	validateProject(vr, &cfg.Project)
	validateEngine(vr, &cfg.Engine)
	validateUnknownKeys(vr, meta)

	return vr
}

// validateProject checks the [project] section for errors and warnings.
func validateProject(vr *ValidationResult, p *ProjectConfig) {
	// Error: definitions_dir must not be empty.
	if p.DefinitionsDir == "" {
		addError(vr, "project.definitions_dir", "must not be empty")
	}

	// Error: state_dir must not be empty.
	if p.StateDir == "" {
		addError(vr, "project.state_dir", "must not be empty")
	}

	// Error: definition_glob must be a valid pattern.
	if p.DefinitionGlob != "" && !doublestar.ValidatePattern(p.DefinitionGlob) {
		addError(vr, "project.definition_glob",
			fmt.Sprintf("invalid glob pattern %q", p.DefinitionGlob))
	}

	// Error: skill_glob must be a valid pattern.
	if p.SkillGlob != "" && !doublestar.ValidatePattern(p.SkillGlob) {
		addError(vr, "project.skill_glob",
			fmt.Sprintf("invalid glob pattern %q", p.SkillGlob))
	}

	// Error: log_level must be recognized.
	if !recognizedLogLevels[p.LogLevel] {
		addError(vr, "project.log_level",
			fmt.Sprintf("unrecognized level %q; must be one of: debug, info, warn, error, fatal, or empty", p.LogLevel))
	}

	// Warning: definitions_dir does not exist.
	if p.DefinitionsDir != "" {
		if _, err := os.Stat(p.DefinitionsDir); err != nil {
			addWarning(vr, "project.definitions_dir",
				fmt.Sprintf("directory %q does not exist", p.DefinitionsDir))
		}
	}

	// Warning: skills_dir does not exist.
	if p.SkillsDir != "" {
		if _, err := os.Stat(p.SkillsDir); err != nil {
			addWarning(vr, "project.skills_dir",
				fmt.Sprintf("directory %q does not exist", p.SkillsDir))
		}
	}
}

// validateEngine checks the [engine] section.
func validateEngine(vr *ValidationResult, e *EngineConfig) {
	// Error: slot must be a safe file name stem.
	if e.Slot != "" && !validSlotName.MatchString(e.Slot) {
		addError(vr, "engine.slot",
			fmt.Sprintf("invalid slot name %q; only letters, digits, '.', '_' and '-' are allowed", e.Slot))
	}

	// Error: metadata keys must not be empty.
	for k := range e.Metadata {
		if k == "" {
			addError(vr, "engine.metadata", "metadata keys must not be empty")
		}
	}
}

// validateUnknownKeys checks for TOML keys that did not map to any config struct field.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}

	for _, key := range meta.Undecoded() {
		path := strings.Join(key, ".")
		addWarning(vr, path, "unknown configuration key")
	}
}

// addError appends an error-severity issue to the validation result.
func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

// addWarning appends a warning-severity issue to the validation result.
func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Field:    field,
		Message:  message,
	})
}
