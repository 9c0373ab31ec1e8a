package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootCmd resets all global flag values and Cobra's internal "Changed"
// tracking to pristine state. This must be called at the start of every test
// that invokes Execute() or manipulates rootCmd.
func resetRootCmd(t *testing.T) {
	t.Helper()
	flagVerbose = false
	flagQuiet = false
	flagConfig = ""
	flagDir = ""
	flagSlot = ""
	flagNoColor = false
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	// Reset pflag "Changed" tracking so env var checks work correctly.
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

// noopCmdName is the name of the test-only noop subcommand.
const noopCmdName = "__test_noop"

// addNoopCmd registers a minimal subcommand on rootCmd so that
// PersistentPreRunE is invoked during tests without launching the watch
// dashboard that the bare root command runs.
func addNoopCmd(t *testing.T) {
	t.Helper()
	noop := &cobra.Command{
		Use:    noopCmdName,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.AddCommand(noop)
	t.Cleanup(func() {
		rootCmd.RemoveCommand(noop)
	})
}

// captureStdout redirects os.Stdout around fn and returns everything the
// function wrote to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// sampleDefinition is a small three-phase workflow used across the command
// tests: a static hop, then a file_exists gate that loops back to review
// until approved.txt appears.
const sampleDefinition = `id: release-notes
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

// writeProject creates a temp project directory with the sample definition
// under workflows/ and chdirs into it for the duration of the test.
func writeProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "workflows"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "workflows", "release-notes.yaml"),
		[]byte(sampleDefinition), 0o644))

	t.Chdir(dir)
	return dir
}

// resetCommandFlags restores every changed flag in the command tree to its
// default value. Subcommand flag values persist across Execute calls, so
// without this a --json or --meta from one test would leak into the next.
func resetCommandFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, child := range c.Commands() {
		resetCommandFlags(child)
	}
}

// runCommand executes the root command with the given args and returns the
// exit code plus captured stdout.
func runCommand(t *testing.T, args ...string) (int, string) {
	t.Helper()
	resetRootCmd(t)
	resetCommandFlags(rootCmd)
	rootCmd.SetArgs(args)

	var code int
	stdout := captureStdout(t, func() {
		code = Execute()
	})
	return code, stdout
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "stagehand", rootCmd.Use)
}

func TestRootCmd_Short(t *testing.T) {
	assert.Equal(t, "Workflow phase engine for content production pipelines", rootCmd.Short)
}

func TestRootCmd_Long(t *testing.T) {
	assert.Contains(t, rootCmd.Long, "one phase at a time")
	assert.Contains(t, rootCmd.Long, "Conditional branches")
}

func TestRootCmd_SilenceUsage(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage, "SilenceUsage must be true")
}

func TestRootCmd_SilenceErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors, "SilenceErrors must be true")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := []struct {
		name      string
		flagName  string
		shorthand string
	}{
		{name: "verbose", flagName: "verbose", shorthand: "v"},
		{name: "quiet", flagName: "quiet", shorthand: "q"},
		{name: "config", flagName: "config", shorthand: ""},
		{name: "dir", flagName: "dir", shorthand: ""},
		{name: "slot", flagName: "slot", shorthand: ""},
		{name: "no-color", flagName: "no-color", shorthand: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "persistent flag %q must be registered", tt.flagName)
			if tt.shorthand != "" {
				assert.Equal(t, tt.shorthand, flag.Shorthand,
					"flag %q should have shorthand %q", tt.flagName, tt.shorthand)
			}
		})
	}
}

func TestRootCmd_FlagUsageContainsEnvHints(t *testing.T) {
	tests := []struct {
		flagName string
		envHint  string
	}{
		{flagName: "verbose", envHint: "STAGEHAND_VERBOSE"},
		{flagName: "quiet", envHint: "STAGEHAND_QUIET"},
		{flagName: "slot", envHint: "STAGEHAND_SLOT"},
		{flagName: "no-color", envHint: "STAGEHAND_NO_COLOR"},
		{flagName: "no-color", envHint: "NO_COLOR"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName+"_"+tt.envHint, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag)
			assert.Contains(t, flag.Usage, tt.envHint)
		})
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	resetRootCmd(t)
	rootCmd.SetArgs([]string{"no-such-command"})
	assert.Equal(t, 1, Execute())
}

func TestPersistentPreRun_VerboseEnvVar(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)
	t.Setenv("STAGEHAND_VERBOSE", "1")

	rootCmd.SetArgs([]string{noopCmdName})
	require.Equal(t, 0, Execute())

	assert.True(t, flagVerbose, "STAGEHAND_VERBOSE must enable verbose mode")
}

func TestPersistentPreRun_FlagBeatsEnv(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)
	t.Setenv("STAGEHAND_QUIET", "")

	rootCmd.SetArgs([]string{noopCmdName, "--quiet"})
	require.Equal(t, 0, Execute())

	assert.True(t, flagQuiet)
}

func TestPersistentPreRun_DirChangesWorkingDirectory(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)

	target := t.TempDir()
	t.Chdir(t.TempDir())

	rootCmd.SetArgs([]string{noopCmdName, "--dir", target})
	require.Equal(t, 0, Execute())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, target, wd)
}

func TestPersistentPreRun_DirInvalid(t *testing.T) {
	resetRootCmd(t)
	addNoopCmd(t)

	rootCmd.SetArgs([]string{noopCmdName, "--dir", filepath.Join(t.TempDir(), "missing")})
	assert.Equal(t, 1, Execute())
}

func TestNewRootCmd_CarriesFlagsAndSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"verbose", "quiet", "config", "dir", "slot", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q missing", name)
	}

	var names []string
	for _, child := range cmd.Commands() {
		names = append(names, child.Name())
	}
	for _, want := range []string{"start", "next", "status", "clear", "workflows", "memory", "skills", "watch", "init", "version"} {
		assert.Contains(t, names, want)
	}
}
