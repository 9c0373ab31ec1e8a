// Package memory provides a small persistent key/value scratchpad that
// workflow phases and the CLI share between invocations. Values are stored
// as JSON in a single file under the project's .stagehand directory.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultFileName is the scratchpad file name inside the state directory.
const DefaultFileName = "memory.json"

// Store is a file-backed key/value scratchpad. All operations are safe for
// concurrent use within a process; cross-process safety relies on the
// write-temp-then-rename commit, which keeps the file readable at all times.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a scratchpad backed by the given file path, creating the
// parent directory if needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating memory directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Set stores value under key, creating the scratchpad file on first use.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = value
	return s.write(data)
}

// Get returns the value for key. The second return is false when the key is
// not present.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Delete removes key from the scratchpad. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.write(data)
}

// Keys returns all stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// All returns a copy of the full scratchpad contents.
func (s *Store) All() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Clear removes the scratchpad file entirely. Clearing an absent scratchpad
// is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing memory: %w", err)
	}
	return nil
}

// read loads the scratchpad from disk. An absent file yields an empty map.
func (s *Store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading memory file: %w", err)
	}
	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing memory file %s: %w", s.path, err)
	}
	return data, nil
}

// write commits the scratchpad atomically via a temp file and rename.
func (s *Store) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding memory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing memory file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing memory file: %w", err)
	}
	return nil
}
