package workflow

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry loads, validates, and caches workflow definitions by id. Loads
// for the same id are deduplicated with singleflight so a burst of callers
// after a cache clear re-reads the source exactly once. Readers observe
// either the fully cached definition or a freshly loaded one, never a
// partially populated cache.
type Registry struct {
	source Source

	mu    sync.RWMutex
	cache map[string]*WorkflowDefinition
	group singleflight.Group
}

// NewRegistry creates a Registry backed by the given definition source.
func NewRegistry(source Source) *Registry {
	return &Registry{
		source: source,
		cache:  make(map[string]*WorkflowDefinition),
	}
}

// Load resolves the definition for id, reading the source on a cache miss.
// Loaded definitions are validated before being cached: a definition that
// parses but fails structural checks is reported as ErrDefinitionInvalid
// with every detected problem, and nothing is cached.
func (r *Registry) Load(id string) (*WorkflowDefinition, error) {
	r.mu.RLock()
	def, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}

	v, err, _ := r.group.Do(id, func() (any, error) {
		// Another caller may have populated the cache while this one
		// waited on the flight group.
		r.mu.RLock()
		cached, hit := r.cache[id]
		r.mu.RUnlock()
		if hit {
			return cached, nil
		}

		loaded, err := r.source.Load(id)
		if err != nil {
			return nil, err
		}

		if errs := ValidateDefinition(loaded); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			return nil, fmt.Errorf("%w: %s: %s", ErrDefinitionInvalid, id, strings.Join(msgs, "; "))
		}

		r.mu.Lock()
		r.cache[id] = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*WorkflowDefinition), nil
}

// List returns the ids of all definitions discoverable in the source,
// whether or not they are cached or even valid.
func (r *Registry) List() ([]string, error) {
	return r.source.List()
}

// ClearCache drops all cached definitions. The next Load for any id re-reads
// the source, so externally edited definitions take effect without a process
// restart.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]*WorkflowDefinition)
	r.mu.Unlock()
}

// Cached returns the ids of all currently cached definitions, sorted.
func (r *Registry) Cached() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.cache))
	for id := range r.cache {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetPhase returns the phase with the given id from def, or ErrPhaseNotFound.
func (r *Registry) GetPhase(def *WorkflowDefinition, phaseID string) (*Phase, error) {
	if p := def.PhaseByID(phaseID); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q in workflow %q", ErrPhaseNotFound, phaseID, def.ID)
}
