package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// DefaultDefinitionGlob matches the definition files a DirSource discovers
// beneath its directory. A workflow's id is its filename without extension.
const DefaultDefinitionGlob = "**/*.{yaml,yml}"

// Source resolves workflow definitions from an external store. Implementations
// return ErrDefinitionNotFound (wrapped) when no entry exists for an id and
// ErrDefinitionInvalid (wrapped) when the entry cannot be parsed. Structural
// validation is the Registry's job, not the Source's.
type Source interface {
	// Load returns the definition stored under id.
	Load(id string) (*WorkflowDefinition, error)

	// List returns the ids of all definitions the source can provide,
	// sorted.
	List() ([]string, error)
}

// DirSource loads workflow definitions from YAML files in a directory tree.
// Files are discovered with a doublestar glob so definitions may be organized
// into subdirectories. Every Load re-reads the file; caching is the
// Registry's concern.
type DirSource struct {
	dir  string
	glob string
}

// NewDirSource creates a DirSource rooted at dir. An empty glob selects
// DefaultDefinitionGlob.
func NewDirSource(dir, glob string) *DirSource {
	if glob == "" {
		glob = DefaultDefinitionGlob
	}
	return &DirSource{dir: dir, glob: glob}
}

// Dir returns the definitions directory this source reads from.
func (s *DirSource) Dir() string { return s.dir }

// Load reads and parses the definition file for id. The definition's ID
// field may be omitted in the file, in which case it defaults to the file
// id; a non-empty ID that disagrees with the filename is rejected as
// invalid, since run-state lookups are keyed by id.
func (s *DirSource) Load(id string) (*WorkflowDefinition, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrDefinitionNotFound, id, s.dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q in %s", ErrDefinitionNotFound, id, s.dir)
		}
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}

	var def WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrDefinitionInvalid, path, err)
	}

	if def.ID == "" {
		def.ID = id
	} else if def.ID != id {
		return nil, fmt.Errorf("%w: %s declares id %q, expected %q",
			ErrDefinitionInvalid, path, def.ID, id)
	}

	def.Fingerprint = xxhash.Sum64(data)
	return &def, nil
}

// List returns the sorted ids of every definition file under the source
// directory. A missing directory yields an empty list, not an error, so a
// fresh project can start before any definitions exist.
func (s *DirSource) List() ([]string, error) {
	files, err := s.discover()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(files))
	ids := make([]string, 0, len(files))
	for _, f := range files {
		id := idFromFilename(f)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// pathFor locates the file whose basename-without-extension equals id.
// Returns an empty path when no file matches.
func (s *DirSource) pathFor(id string) (string, error) {
	files, err := s.discover()
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if idFromFilename(f) == id {
			return f, nil
		}
	}
	return "", nil
}

// discover globs the definition directory for candidate files. Results are
// sorted so duplicate-id resolution is deterministic.
func (s *DirSource) discover() ([]string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading definitions directory %q: %w", s.dir, err)
	}

	pattern := filepath.Join(s.dir, s.glob)
	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing definitions %q: %w", pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// idFromFilename maps a definition file path to its workflow id: the
// basename with the extension stripped.
func idFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
