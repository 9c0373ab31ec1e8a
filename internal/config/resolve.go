package config

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value came from built-in defaults.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the value came from the stagehand.toml config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceCLI indicates the value came from a CLI flag.
	SourceCLI ConfigSource = "cli"
)

// ResolvedConfig holds the fully-resolved configuration with source tracking.
// The Config field contains the merged values; Sources tracks where each came from.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource // key is dotted path, e.g., "project.definitions_dir"
	Path    string                  // path to the config file used (empty if none)
}

// CLIOverrides captures flag values that can override configuration.
// Nil values mean "not set" (do not override). A *string that is nil
// means "not overridden"; a *string pointing to "" means "override to empty string."
type CLIOverrides struct {
	DefinitionsDir *string
	SkillsDir      *string
	StateDir       *string
	Slot           *string
	LogLevel       *string
}

// EnvFunc is a function that looks up environment variables.
// Default implementation is os.LookupEnv. Injected for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
//
// Parameters:
//   - defaults: built-in default config (from NewDefaults())
//   - fileConfig: parsed config from stagehand.toml (nil if no file found)
//   - envFn: function to look up environment variables
//   - overrides: CLI flag values (nil fields mean "not set")
//
// Returns the fully-resolved config with source annotations.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) *ResolvedConfig {
	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}

	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	// Layer 1: Start with defaults as the base.
	resolveFromDefaults(rc, defaults)

	// Layer 2: Merge file config on top (non-zero string values override; maps merge keys).
	if fileConfig != nil {
		resolveFromFile(rc, fileConfig)
	}

	// Layer 3: Merge environment variables on top.
	resolveFromEnv(rc, envFn)

	// Layer 4: Merge CLI overrides on top.
	resolveFromCLI(rc, overrides)

	return rc
}

// --- Layer 1: Defaults ---

func resolveFromDefaults(rc *ResolvedConfig, defaults *Config) {
	p := &rc.Config.Project
	d := &defaults.Project

	setString(&p.Name, d.Name, "project.name", SourceDefault, rc.Sources)
	setString(&p.DefinitionsDir, d.DefinitionsDir, "project.definitions_dir", SourceDefault, rc.Sources)
	setString(&p.DefinitionGlob, d.DefinitionGlob, "project.definition_glob", SourceDefault, rc.Sources)
	setString(&p.SkillsDir, d.SkillsDir, "project.skills_dir", SourceDefault, rc.Sources)
	setString(&p.SkillGlob, d.SkillGlob, "project.skill_glob", SourceDefault, rc.Sources)
	setString(&p.StateDir, d.StateDir, "project.state_dir", SourceDefault, rc.Sources)
	setString(&p.MemoryFile, d.MemoryFile, "project.memory_file", SourceDefault, rc.Sources)
	setString(&p.LogLevel, d.LogLevel, "project.log_level", SourceDefault, rc.Sources)

	e := &rc.Config.Engine
	setString(&e.Slot, defaults.Engine.Slot, "engine.slot", SourceDefault, rc.Sources)
	e.Metadata = copyMetadata(defaults.Engine.Metadata)
	rc.Sources["engine.metadata"] = SourceDefault
}

// --- Layer 2: File ---

func resolveFromFile(rc *ResolvedConfig, file *Config) {
	p := &rc.Config.Project
	f := &file.Project

	mergeString(&p.Name, f.Name, "project.name", SourceFile, rc.Sources)
	mergeString(&p.DefinitionsDir, f.DefinitionsDir, "project.definitions_dir", SourceFile, rc.Sources)
	mergeString(&p.DefinitionGlob, f.DefinitionGlob, "project.definition_glob", SourceFile, rc.Sources)
	mergeString(&p.SkillsDir, f.SkillsDir, "project.skills_dir", SourceFile, rc.Sources)
	mergeString(&p.SkillGlob, f.SkillGlob, "project.skill_glob", SourceFile, rc.Sources)
	mergeString(&p.StateDir, f.StateDir, "project.state_dir", SourceFile, rc.Sources)
	mergeString(&p.MemoryFile, f.MemoryFile, "project.memory_file", SourceFile, rc.Sources)
	mergeString(&p.LogLevel, f.LogLevel, "project.log_level", SourceFile, rc.Sources)

	mergeString(&rc.Config.Engine.Slot, file.Engine.Slot, "engine.slot", SourceFile, rc.Sources)

	// Metadata keys from the file merge over defaults key by key.
	if len(file.Engine.Metadata) > 0 {
		if rc.Config.Engine.Metadata == nil {
			rc.Config.Engine.Metadata = map[string]string{}
		}
		for k, v := range file.Engine.Metadata {
			rc.Config.Engine.Metadata[k] = v
		}
		rc.Sources["engine.metadata"] = SourceFile
	}
}

// --- Layer 3: Environment ---

// Environment variable mapping:
//
//	STAGEHAND_DEFINITIONS_DIR -> project.definitions_dir
//	STAGEHAND_SKILLS_DIR      -> project.skills_dir
//	STAGEHAND_STATE_DIR       -> project.state_dir
//	STAGEHAND_MEMORY_FILE     -> project.memory_file
//	STAGEHAND_LOG_LEVEL       -> project.log_level
//	STAGEHAND_SLOT            -> engine.slot
func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) {
	p := &rc.Config.Project

	if val, ok := envFn("STAGEHAND_DEFINITIONS_DIR"); ok {
		p.DefinitionsDir = val
		rc.Sources["project.definitions_dir"] = SourceEnv
	}
	if val, ok := envFn("STAGEHAND_SKILLS_DIR"); ok {
		p.SkillsDir = val
		rc.Sources["project.skills_dir"] = SourceEnv
	}
	if val, ok := envFn("STAGEHAND_STATE_DIR"); ok {
		p.StateDir = val
		rc.Sources["project.state_dir"] = SourceEnv
	}
	if val, ok := envFn("STAGEHAND_MEMORY_FILE"); ok {
		p.MemoryFile = val
		rc.Sources["project.memory_file"] = SourceEnv
	}
	if val, ok := envFn("STAGEHAND_LOG_LEVEL"); ok {
		p.LogLevel = val
		rc.Sources["project.log_level"] = SourceEnv
	}
	if val, ok := envFn("STAGEHAND_SLOT"); ok {
		rc.Config.Engine.Slot = val
		rc.Sources["engine.slot"] = SourceEnv
	}
}

// --- Layer 4: CLI overrides ---

func resolveFromCLI(rc *ResolvedConfig, overrides *CLIOverrides) {
	p := &rc.Config.Project

	if overrides.DefinitionsDir != nil {
		p.DefinitionsDir = *overrides.DefinitionsDir
		rc.Sources["project.definitions_dir"] = SourceCLI
	}
	if overrides.SkillsDir != nil {
		p.SkillsDir = *overrides.SkillsDir
		rc.Sources["project.skills_dir"] = SourceCLI
	}
	if overrides.StateDir != nil {
		p.StateDir = *overrides.StateDir
		rc.Sources["project.state_dir"] = SourceCLI
	}
	if overrides.Slot != nil {
		rc.Config.Engine.Slot = *overrides.Slot
		rc.Sources["engine.slot"] = SourceCLI
	}
	if overrides.LogLevel != nil {
		p.LogLevel = *overrides.LogLevel
		rc.Sources["project.log_level"] = SourceCLI
	}
}

// --- Helpers ---

// setString unconditionally sets the target to the given value and records the source.
func setString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[path] = source
}

// mergeString overwrites the target only if value is non-empty (non-zero string).
// For file-layer merging, an empty string in the file means "not set in file",
// so it does not override the default.
func mergeString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

// copyMetadata returns a copy of a metadata map, never nil.
func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
