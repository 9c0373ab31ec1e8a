package workflow

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source for registry and engine tests. It counts
// loads so caching behavior is observable.
type memSource struct {
	mu    sync.Mutex
	defs  map[string]*WorkflowDefinition
	loads atomic.Int64
}

var _ Source = (*memSource)(nil)

func newMemSource(defs ...*WorkflowDefinition) *memSource {
	m := &memSource{defs: make(map[string]*WorkflowDefinition)}
	for _, d := range defs {
		m.defs[d.ID] = d
	}
	return m
}

func (m *memSource) Load(id string) (*WorkflowDefinition, error) {
	m.loads.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	def, ok := m.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, id)
	}
	// Return a copy so callers cannot mutate the stored definition.
	cp := *def
	return &cp, nil
}

func (m *memSource) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.defs))
	for id := range m.defs {
		ids = append(ids, id)
	}
	return ids, nil
}

// put replaces a stored definition, simulating an external edit.
func (m *memSource) put(def *WorkflowDefinition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs[def.ID] = def
}

func TestRegistry_Load_Caches(t *testing.T) {
	src := newMemSource(validDef())
	reg := NewRegistry(src)

	first, err := reg.Load("wf")
	require.NoError(t, err)

	second, err := reg.Load("wf")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), src.loads.Load())
}

func TestRegistry_Load_NotFound(t *testing.T) {
	reg := NewRegistry(newMemSource())

	_, err := reg.Load("ghost")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestRegistry_Load_InvalidNotCached(t *testing.T) {
	bad := validDef()
	bad.Phases[1].NextPhase = strp("ghost")
	src := newMemSource(bad)
	reg := NewRegistry(src)

	_, err := reg.Load("wf")
	require.ErrorIs(t, err, ErrDefinitionInvalid)
	assert.Contains(t, err.Error(), "ghost")

	// Fixing the source entry makes the next load succeed without a cache
	// clear, proving the invalid result was not cached.
	src.put(validDef())
	_, err = reg.Load("wf")
	assert.NoError(t, err)
}

func TestRegistry_ClearCache(t *testing.T) {
	src := newMemSource(validDef())
	reg := NewRegistry(src)

	_, err := reg.Load("wf")
	require.NoError(t, err)
	assert.Equal(t, []string{"wf"}, reg.Cached())

	edited := validDef()
	edited.Name = "Edited Workflow"
	src.put(edited)

	// Cached definition still served until the cache is cleared.
	def, err := reg.Load("wf")
	require.NoError(t, err)
	assert.Equal(t, "Workflow", def.Name)

	reg.ClearCache()
	assert.Empty(t, reg.Cached())

	def, err = reg.Load("wf")
	require.NoError(t, err)
	assert.Equal(t, "Edited Workflow", def.Name)
	assert.Equal(t, int64(2), src.loads.Load())
}

func TestRegistry_Load_ConcurrentSingleLoad(t *testing.T) {
	src := newMemSource(validDef())
	reg := NewRegistry(src)

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := reg.Load("wf")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), src.loads.Load())
}

func TestRegistry_GetPhase(t *testing.T) {
	reg := NewRegistry(newMemSource(validDef()))
	def, err := reg.Load("wf")
	require.NoError(t, err)

	phase, err := reg.GetPhase(def, "phase_a")
	require.NoError(t, err)
	assert.Equal(t, "phase_a", phase.ID)

	_, err = reg.GetPhase(def, "ghost")
	assert.ErrorIs(t, err, ErrPhaseNotFound)
}
