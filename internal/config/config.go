package config

// Config is the top-level configuration structure mapping to stagehand.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Engine  EngineConfig  `toml:"engine"`
}

// ProjectConfig maps to the [project] section in stagehand.toml.
type ProjectConfig struct {
	Name           string `toml:"name"`
	DefinitionsDir string `toml:"definitions_dir"`
	DefinitionGlob string `toml:"definition_glob"`
	SkillsDir      string `toml:"skills_dir"`
	SkillGlob      string `toml:"skill_glob"`
	StateDir       string `toml:"state_dir"`
	MemoryFile     string `toml:"memory_file"`
	LogLevel       string `toml:"log_level"`
}

// EngineConfig maps to the [engine] section in stagehand.toml.
type EngineConfig struct {
	// Slot is the workflow identity slot commands operate on unless
	// overridden with --slot.
	Slot string `toml:"slot"`

	// Metadata is injected into every fresh run-state at start, below any
	// values passed on the command line.
	Metadata map[string]string `toml:"metadata"`
}
