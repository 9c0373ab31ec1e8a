package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// TestEventBridge_TransitionCmd_ReceivesEvent verifies that the returned
// tea.Cmd converts a workflow.TransitionEvent to a TransitionMsg.
func TestEventBridge_TransitionCmd_ReceivesEvent(t *testing.T) {
	t.Parallel()

	b := NewEventBridge()
	ch := make(chan workflow.TransitionEvent, 1)

	ts := time.Now()
	ch <- workflow.TransitionEvent{
		Type:       workflow.EvPhaseAdvanced,
		WorkflowID: "content-pipeline",
		Phase:      "phase_0",
		NextPhase:  "phase_1_video",
		Branch:     "video",
		Timestamp:  ts,
	}

	cmd := b.TransitionCmd(context.Background(), ch)
	require.NotNil(t, cmd)

	msg := cmd()
	trMsg, ok := msg.(TransitionMsg)
	require.True(t, ok, "expected TransitionMsg, got %T", msg)

	assert.Equal(t, workflow.EvPhaseAdvanced, trMsg.Event.Type)
	assert.Equal(t, "content-pipeline", trMsg.Event.WorkflowID)
	assert.Equal(t, "phase_1_video", trMsg.Event.NextPhase)
	assert.Equal(t, "video", trMsg.Event.Branch)
	assert.Equal(t, ts, trMsg.Event.Timestamp)
}

// TestEventBridge_TransitionCmd_ClosedChannel verifies that a closed channel
// yields a nil message instead of a zero-value event.
func TestEventBridge_TransitionCmd_ClosedChannel(t *testing.T) {
	t.Parallel()

	b := NewEventBridge()
	ch := make(chan workflow.TransitionEvent)
	close(ch)

	msg := b.TransitionCmd(context.Background(), ch)()
	assert.Nil(t, msg)
}

// TestEventBridge_TransitionCmd_ContextCancelled verifies that cancellation
// unblocks the command with a nil message.
func TestEventBridge_TransitionCmd_ContextCancelled(t *testing.T) {
	t.Parallel()

	b := NewEventBridge()
	ch := make(chan workflow.TransitionEvent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msg := b.TransitionCmd(ctx, ch)()
	assert.Nil(t, msg)
}
