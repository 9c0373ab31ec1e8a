package cli

import (
	"fmt"
	"strings"

	"github.com/parkerhale/stagehand/internal/config"
	"github.com/parkerhale/stagehand/internal/logging"
	"github.com/parkerhale/stagehand/internal/memory"
	"github.com/parkerhale/stagehand/internal/skill"
	"github.com/parkerhale/stagehand/internal/workflow"
)

// appContext bundles the engine and its collaborators, built once per command
// invocation from the resolved configuration.
type appContext struct {
	Config   *config.Config
	Registry *workflow.Registry
	Store    *workflow.StateStore
	Engine   *workflow.Engine
	Slot     string
}

// newAppContext resolves configuration and wires up the registry, state
// store, and engine. Extra engine options are appended after the slot and
// logger wiring.
func newAppContext(engineOpts ...workflow.EngineOption) (*appContext, error) {
	resolved, _, err := loadAndResolveConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := resolved.Config

	source := workflow.NewDirSource(cfg.Project.DefinitionsDir, cfg.Project.DefinitionGlob)
	registry := workflow.NewRegistry(source)

	store, err := workflow.NewStateStore(cfg.Project.StateDir)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	slot := cfg.Engine.Slot
	if slot == "" {
		slot = workflow.DefaultSlot
	}

	opts := append([]workflow.EngineOption{
		workflow.WithSlot(slot),
		workflow.WithLogger(logging.New("engine")),
	}, engineOpts...)
	engine := workflow.NewEngine(registry, store, opts...)

	return &appContext{
		Config:   cfg,
		Registry: registry,
		Store:    store,
		Engine:   engine,
		Slot:     slot,
	}, nil
}

// openMemory opens the scratchpad store configured for the project.
func openMemory(cfg *config.Config) (*memory.Store, error) {
	path := cfg.Project.MemoryFile
	if path == "" {
		path = ".stagehand/" + memory.DefaultFileName
	}
	return memory.NewStore(path)
}

// newSkillLoader builds the skill loader configured for the project.
func newSkillLoader(cfg *config.Config) *skill.Loader {
	return skill.NewLoader(cfg.Project.SkillsDir, cfg.Project.SkillGlob)
}

// parseMetaFlags converts repeated --meta key=value flags into a metadata map.
func parseMetaFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --meta %q: expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}
