package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// DefaultSlot is the workflow identity slot used when no explicit slot key
// is supplied. The observed contract is one active workflow per slot;
// distinct slots are fully independent.
const DefaultSlot = "default"

// slotNamePattern restricts slot keys to filename-safe characters, since a
// slot maps directly to a state file name.
var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// StateStore persists workflow run-state as JSON files, one per slot, under
// a state directory. Writes use an atomic temp-file-then-rename pattern. A
// per-slot mutex serializes read-modify-write cycles within the process, so
// concurrent transitions against the same slot never interleave; operations
// on distinct slots share no lock.
type StateStore struct {
	dir string

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewStateStore creates a StateStore rooted at dir, creating the directory
// if needed.
func NewStateStore(dir string) (*StateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory %q: %w", dir, err)
	}
	return &StateStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the state directory this store writes to.
func (ss *StateStore) Dir() string { return ss.dir }

// Load reads the run-state for slot. A missing state file returns (nil, nil):
// absence of an active workflow is not an error, callers detect it
// explicitly.
func (ss *StateStore) Load(slot string) (*WorkflowState, error) {
	path, err := ss.pathFor(slot)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading state file %q: %w", path, err)
	}

	var state WorkflowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state file %q: %w", path, err)
	}
	return &state, nil
}

// Save writes the run-state for slot atomically.
func (ss *StateStore) Save(slot string, state *WorkflowState) error {
	path, err := ss.pathFor(slot)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state for slot %q: %w", slot, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing temp state file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("renaming temp state file to %q: %w", path, err)
	}
	return nil
}

// Clear removes the run-state for slot. Clearing an absent slot is a no-op.
func (ss *StateStore) Clear(slot string) error {
	path, err := ss.pathFor(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing state file %q: %w", path, err)
	}
	return nil
}

// Mutate runs fn as one atomic read-decide-commit cycle for slot. fn receives
// the current state (nil when none exists) and returns the state to persist,
// whether to persist it, and an error. When fn errors or declines to save,
// the stored state is left exactly as it was.
func (ss *StateStore) Mutate(slot string, fn func(cur *WorkflowState) (next *WorkflowState, save bool, err error)) (*WorkflowState, error) {
	lock := ss.slotLock(slot)
	lock.Lock()
	defer lock.Unlock()

	cur, err := ss.Load(slot)
	if err != nil {
		return nil, err
	}

	next, save, err := fn(cur)
	if err != nil {
		return nil, err
	}
	if save {
		if err := ss.Save(slot, next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// slotLock returns the mutex guarding slot, creating it on first use.
func (ss *StateStore) slotLock(slot string) *sync.Mutex {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	lock, ok := ss.locks[slot]
	if !ok {
		lock = &sync.Mutex{}
		ss.locks[slot] = lock
	}
	return lock
}

// pathFor maps a slot key to its state file path, rejecting keys that are
// not filename-safe.
func (ss *StateStore) pathFor(slot string) (string, error) {
	if !slotNamePattern.MatchString(slot) {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(ss.dir, slot+".json"), nil
}
