package config

// NewDefaults returns a Config populated with all default values. Paths are
// relative to the project root (the directory holding stagehand.toml).
func NewDefaults() *Config {
	return &Config{
		Project: ProjectConfig{
			DefinitionsDir: "workflows",
			DefinitionGlob: "**/*.{yaml,yml}",
			SkillsDir:      "skills",
			SkillGlob:      "**/*.md",
			StateDir:       ".stagehand/state",
			MemoryFile:     ".stagehand/memory.json",
			LogLevel:       "info",
		},
		Engine: EngineConfig{
			Slot:     "default",
			Metadata: map[string]string{},
		},
	}
}
