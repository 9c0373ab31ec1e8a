// Package skill loads reusable instruction documents ("skills") from a
// directory of markdown files. A skill is a markdown body with an optional
// YAML frontmatter block naming the skill and the workflow phases it applies
// to. Skills are advisory content for the external caller driving the
// workflow; the engine itself never interprets them.
package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultGlob matches skill documents anywhere under the skills directory.
const DefaultGlob = "**/*.md"

// maxSkillFileSize is the maximum number of bytes read from a single skill
// file. Larger files are rejected to prevent memory exhaustion.
const maxSkillFileSize = 1 << 20 // 1 MiB

// utf8BOM is stripped before parsing so frontmatter detection works on files
// saved by BOM-prepending editors.
const utf8BOM = "\xef\xbb\xbf"

// Skill is one loaded skill document.
type Skill struct {
	// ID is the skill's identity, derived from the file name without the
	// .md extension, or overridden by the frontmatter name field.
	ID string `json:"id"`

	// Description is a one-line summary from the frontmatter, if any.
	Description string `json:"description,omitempty"`

	// Phases lists the workflow phase ids this skill applies to. Empty
	// means the skill applies everywhere.
	Phases []string `json:"phases,omitempty"`

	// Body is the markdown content below the frontmatter.
	Body string `json:"-"`

	// Path is the file the skill was loaded from.
	Path string `json:"path"`
}

// frontmatter is the YAML header of a skill file.
type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Phases      []string `yaml:"phases"`
}

// Loader discovers and parses skill files under a directory.
type Loader struct {
	dir  string
	glob string
}

// NewLoader creates a Loader over dir using the doublestar pattern to match
// skill files. An empty pattern means DefaultGlob.
func NewLoader(dir, glob string) *Loader {
	if glob == "" {
		glob = DefaultGlob
	}
	return &Loader{dir: dir, glob: glob}
}

// List loads every skill under the directory, sorted by ID. A missing skills
// directory yields an empty list, not an error.
func (l *Loader) List() ([]Skill, error) {
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(l.dir, l.glob))
	if err != nil {
		return nil, fmt.Errorf("scanning skills directory %s: %w", l.dir, err)
	}

	skills := make([]Skill, 0, len(matches))
	for _, path := range matches {
		s, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *s)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	return skills, nil
}

// Load returns the skill with the given id.
func (l *Loader) Load(id string) (*Skill, error) {
	skills, err := l.List()
	if err != nil {
		return nil, err
	}
	for i := range skills {
		if skills[i].ID == id {
			return &skills[i], nil
		}
	}
	return nil, fmt.Errorf("skill %q not found in %s", id, l.dir)
}

// ForPhase returns the skills that apply to the given workflow phase:
// skills that list the phase plus skills with no phase restriction.
func (l *Loader) ForPhase(phaseID string) ([]Skill, error) {
	skills, err := l.List()
	if err != nil {
		return nil, err
	}
	var matched []Skill
	for _, s := range skills {
		if len(s.Phases) == 0 {
			matched = append(matched, s)
			continue
		}
		for _, p := range s.Phases {
			if p == phaseID {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched, nil
}

// parseFile reads one skill file and splits it into frontmatter and body.
func parseFile(path string) (*Skill, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill %s: %w", path, err)
	}
	if info.Size() > maxSkillFileSize {
		return nil, fmt.Errorf("skill %s exceeds %d bytes", path, maxSkillFileSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill %s: %w", path, err)
	}

	content := strings.TrimPrefix(string(raw), utf8BOM)
	fm, body := splitFrontmatter(content)

	s := &Skill{
		ID:   idFromFilename(path),
		Body: body,
		Path: path,
	}
	if fm != "" {
		var meta frontmatter
		if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
			return nil, fmt.Errorf("parsing frontmatter of %s: %w", path, err)
		}
		if meta.Name != "" {
			s.ID = meta.Name
		}
		s.Description = meta.Description
		s.Phases = meta.Phases
	}
	return s, nil
}

// splitFrontmatter separates an optional leading "---" YAML block from the
// markdown body. Content without a frontmatter block is returned whole as
// the body.
func splitFrontmatter(content string) (fm, body string) {
	const delim = "---\n"
	if !strings.HasPrefix(content, delim) {
		return "", content
	}
	rest := content[len(delim):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content
	}
	fm = rest[:end]
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return fm, body
}

// idFromFilename derives a skill id from its file name.
func idFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
