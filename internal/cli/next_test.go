package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCmd_NoActiveWorkflow(t *testing.T) {
	writeProject(t)

	code, _ := runCommand(t, "next")
	assert.Equal(t, 1, code)
}

func TestNextCmd_StaticTransition(t *testing.T) {
	writeProject(t)
	require.Equal(t, 0, mustRun(t, "start", "release-notes"))

	code, stdout := runCommand(t, "next", "--json")
	require.Equal(t, 0, code)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "review", result["new_phase"])

	out := statusJSON(t)
	assert.Equal(t, "review", out.CurrentPhase)
	assert.Empty(t, out.BranchHistory, "static transitions are not recorded as branches")
}

func TestNextCmd_ConditionalDefaultBranch(t *testing.T) {
	writeProject(t)
	require.Equal(t, 0, mustRun(t, "start", "release-notes"))
	require.Equal(t, 0, mustRun(t, "next"))

	// approved.txt is absent, so the file_exists gate falls back to the
	// default target and loops on review.
	require.Equal(t, 0, mustRun(t, "next"))

	out := statusJSON(t)
	assert.Equal(t, "review", out.CurrentPhase)
	require.Len(t, out.BranchHistory, 1)
	assert.Equal(t, "review -> review (default)", out.BranchHistory[0])
}

func TestNextCmd_ConditionalMatchedBranch(t *testing.T) {
	dir := writeProject(t)
	require.Equal(t, 0, mustRun(t, "start", "release-notes"))
	require.Equal(t, 0, mustRun(t, "next"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "approved.txt"), []byte("ok\n"), 0o644))

	require.Equal(t, 0, mustRun(t, "next"))

	out := statusJSON(t)
	assert.Equal(t, "publish", out.CurrentPhase)
	require.Len(t, out.BranchHistory, 1)
	assert.Equal(t, "review -> publish (true)", out.BranchHistory[0])
}

func TestNextCmd_CompletesAtTerminalPhase(t *testing.T) {
	dir := writeProject(t)
	require.Equal(t, 0, mustRun(t, "start", "release-notes"))
	require.Equal(t, 0, mustRun(t, "next"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "approved.txt"), []byte("ok\n"), 0o644))
	require.Equal(t, 0, mustRun(t, "next"))

	code, stdout := runCommand(t, "next", "--json")
	require.Equal(t, 0, code)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, true, result["completed"])

	out := statusJSON(t)
	assert.True(t, out.Completed)
	assert.Equal(t, "publish", out.CurrentPhase)
}

func TestNextCmd_PastCompletionFails(t *testing.T) {
	dir := writeProject(t)
	require.Equal(t, 0, mustRun(t, "start", "release-notes"))
	require.Equal(t, 0, mustRun(t, "next"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "approved.txt"), []byte("ok\n"), 0o644))
	require.Equal(t, 0, mustRun(t, "next"))
	require.Equal(t, 0, mustRun(t, "next"))

	code, _ := runCommand(t, "next")
	assert.Equal(t, 1, code, "advancing a completed workflow must fail")

	assert.Equal(t, "publish", statusJSON(t).CurrentPhase, "failed transition must not move the run")
}
