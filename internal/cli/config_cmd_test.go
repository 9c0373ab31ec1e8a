package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProjectTOML = `[project]
name = "newsroom"
definitions_dir = "pipelines"
log_level = "debug"

[engine]
slot = "nightly"

[engine.metadata]
channel = "blog"
`

// runForOutput executes the root command with args and returns the exit code
// plus everything written through cmd.OutOrStdout and cmd.ErrOrStderr.
func runForOutput(t *testing.T, args ...string) (int, string) {
	t.Helper()
	resetRootCmd(t)
	resetCommandFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	code := Execute()
	return code, buf.String()
}

func TestConfigShowCmd_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out := runForOutput(t, "config", "show")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "workflows")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "[project]")
	assert.Contains(t, out, "[engine]")
}

func TestConfigShowCmd_FileValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stagehand.toml"), []byte(sampleProjectTOML), 0o644))
	t.Chdir(dir)

	code, out := runForOutput(t, "config", "show")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "newsroom")
	assert.Contains(t, out, "pipelines")
	assert.Contains(t, out, "nightly")
	assert.Contains(t, out, "channel")
}

func TestConfigShowCmd_ExplicitConfigPath(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "stagehand.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(sampleProjectTOML), 0o644))
	t.Chdir(t.TempDir())

	code, out := runForOutput(t, "config", "show", "--config", cfgPath)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "newsroom")
}

func TestConfigValidateCmd_ValidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stagehand.toml"), []byte(sampleProjectTOML), 0o644))
	t.Chdir(dir)

	code, _ := runForOutput(t, "config", "validate")
	assert.Equal(t, 0, code)
}

func TestConfigValidateCmd_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	bad := "[project]\nlog_level = \"verbose\"\n\n[engine]\nslot = \"bad slot\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stagehand.toml"), []byte(bad), 0o644))
	t.Chdir(dir)

	code, out := runForOutput(t, "config", "validate")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "log_level")
	assert.Contains(t, out, "slot")
}

func TestConfigValidateCmd_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stagehand.toml"), []byte("[project\n"), 0o644))
	t.Chdir(dir)

	code, _ := runForOutput(t, "config", "validate")
	assert.Equal(t, 1, code)
}

func TestLoadAndResolveConfig_SlotFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stagehand.toml"), []byte(sampleProjectTOML), 0o644))
	t.Chdir(dir)
	resetRootCmd(t)

	flagSlot = "adhoc"
	resolved, _, err := loadAndResolveConfig()
	require.NoError(t, err)
	assert.Equal(t, "adhoc", resolved.Config.Engine.Slot)
}
