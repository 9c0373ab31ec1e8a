package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCmd_SetAndGet(t *testing.T) {
	writeProject(t)

	require.Equal(t, 0, mustRun(t, "memory", "set", "outline", "docs/outline.md"))

	code, stdout := runCommand(t, "memory", "get", "outline")
	require.Equal(t, 0, code)
	assert.Equal(t, "docs/outline.md\n", stdout, "get must print the bare value for piping")
}

func TestMemoryCmd_GetMissingKey(t *testing.T) {
	writeProject(t)

	code, _ := runCommand(t, "memory", "get", "nothing")
	assert.Equal(t, 1, code)
}

func TestMemoryCmd_SetOverwrites(t *testing.T) {
	writeProject(t)

	require.Equal(t, 0, mustRun(t, "memory", "set", "k", "one"))
	require.Equal(t, 0, mustRun(t, "memory", "set", "k", "two"))

	_, stdout := runCommand(t, "memory", "get", "k")
	assert.Equal(t, "two\n", stdout)
}

func TestMemoryCmd_ListJSON(t *testing.T) {
	writeProject(t)

	require.Equal(t, 0, mustRun(t, "memory", "set", "a", "1"))
	require.Equal(t, 0, mustRun(t, "memory", "set", "b", "2"))

	code, stdout := runCommand(t, "memory", "list", "--json")
	require.Equal(t, 0, code)

	var all map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &all))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)
}

func TestMemoryCmd_Delete(t *testing.T) {
	writeProject(t)

	require.Equal(t, 0, mustRun(t, "memory", "set", "a", "1"))
	require.Equal(t, 0, mustRun(t, "memory", "delete", "a"))

	code, _ := runCommand(t, "memory", "get", "a")
	assert.Equal(t, 1, code)
}

func TestMemoryCmd_DeleteAbsentKeyIsNoOp(t *testing.T) {
	writeProject(t)

	code, _ := runCommand(t, "memory", "delete", "ghost")
	assert.Equal(t, 0, code)
}

func TestMemoryCmd_Clear(t *testing.T) {
	writeProject(t)

	require.Equal(t, 0, mustRun(t, "memory", "set", "a", "1"))
	require.Equal(t, 0, mustRun(t, "memory", "clear"))

	code, stdout := runCommand(t, "memory", "list", "--json")
	require.Equal(t, 0, code)

	var all map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &all))
	assert.Empty(t, all)
}
