package e2e_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// testProject is an isolated project directory with a built stagehand binary.
type testProject struct {
	Dir        string
	BinaryPath string
	t          *testing.T
}

// newTestProject builds the stagehand binary into a fresh temp directory and
// returns a testProject ready for use.
func newTestProject(t *testing.T) *testProject {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("E2E tests are not supported on Windows")
	}

	dir := t.TempDir()

	binary := filepath.Join(dir, "stagehand")
	build := exec.Command("go", "build", "-o", binary, "./cmd/stagehand")
	build.Dir = projectRoot()
	out, err := build.CombinedOutput()
	require.NoError(t, err, "building stagehand: %s", string(out))

	return &testProject{Dir: dir, BinaryPath: binary, t: t}
}

// projectRoot returns the absolute path to the root of the repository. It
// uses runtime.Caller(0) to find this source file's location and navigates
// two directories up (tests/e2e/ -> tests/ -> repo root).
func projectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// writeConfig writes content to stagehand.toml in tp.Dir.
func (tp *testProject) writeConfig(content string) {
	tp.t.Helper()
	err := os.WriteFile(filepath.Join(tp.Dir, "stagehand.toml"), []byte(content), 0o644)
	require.NoError(tp.t, err)
}

// writeDefinition writes a workflow definition to workflows/<id>.yaml.
func (tp *testProject) writeDefinition(id, content string) {
	tp.t.Helper()
	defDir := filepath.Join(tp.Dir, "workflows")
	require.NoError(tp.t, os.MkdirAll(defDir, 0o755))
	err := os.WriteFile(filepath.Join(defDir, id+".yaml"), []byte(content), 0o644)
	require.NoError(tp.t, err)
}

// writeSkill writes a skill document to skills/<name>.md.
func (tp *testProject) writeSkill(name, content string) {
	tp.t.Helper()
	skillDir := filepath.Join(tp.Dir, "skills")
	require.NoError(tp.t, os.MkdirAll(skillDir, 0o755))
	err := os.WriteFile(filepath.Join(skillDir, name+".md"), []byte(content), 0o644)
	require.NoError(tp.t, err)
}

// touch creates an empty file at the given path relative to tp.Dir.
func (tp *testProject) touch(name string) {
	tp.t.Helper()
	require.NoError(tp.t, os.WriteFile(filepath.Join(tp.Dir, name), nil, 0o644))
}

// run creates an exec.Cmd for stagehand running inside the project dir.
func (tp *testProject) run(args ...string) *exec.Cmd {
	cmd := exec.Command(tp.BinaryPath, args...)
	cmd.Dir = tp.Dir
	cmd.Env = append(os.Environ(),
		"NO_COLOR=1",
		"STAGEHAND_LOG_FORMAT=json",
	)
	return cmd
}

// runExpectSuccess runs stagehand and asserts exit code 0.
// Returns combined stdout+stderr output.
func (tp *testProject) runExpectSuccess(args ...string) string {
	tp.t.Helper()
	cmd := tp.run(args...)
	out, err := cmd.CombinedOutput()
	require.NoError(tp.t, err, "stagehand %v failed:\n%s", args, string(out))
	return string(out)
}

// runExpectFailure runs stagehand and asserts a non-zero exit code.
// Returns combined output and the exit code.
func (tp *testProject) runExpectFailure(args ...string) (string, int) {
	tp.t.Helper()
	cmd := tp.run(args...)
	out, err := cmd.CombinedOutput()
	require.Error(tp.t, err, "stagehand %v expected to fail but succeeded:\n%s", args, string(out))
	var exitErr *exec.ExitError
	require.True(tp.t, errors.As(err, &exitErr), "expected *exec.ExitError, got %T: %v", err, err)
	return string(out), exitErr.ExitCode()
}

// gatedDefinition is a three-phase workflow with a file_exists gate. The
// review phase loops on itself until approved.txt appears, then branches to
// publish.
const gatedDefinition = `id: release-notes
name: Release Notes
version: "1.0"
phases:
  - id: draft
    name: Draft
    next_phase: review
  - id: review
    name: Review
    conditional_next:
      condition:
        type: file_exists
        source: approved.txt
      branches:
        "true": publish
      default_next: review
  - id: publish
    name: Publish
`
