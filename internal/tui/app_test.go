package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerhale/stagehand/internal/workflow"
)

func newTestApp() App {
	return NewApp(AppConfig{
		Version: "1.2.3",
		Slot:    "default",
		Poll: func() (StatusSnapshot, error) {
			return demoSnapshot().Snapshot, nil
		},
	})
}

func resizedApp(t *testing.T, a App, width, height int) App {
	t.Helper()
	model, _ := a.Update(tea.WindowSizeMsg{Width: width, Height: height})
	app, ok := model.(App)
	require.True(t, ok)
	return app
}

func TestApp_View_InitializingBeforeFirstResize(t *testing.T) {
	t.Parallel()
	a := newTestApp()
	assert.Contains(t, a.View(), "Initializing")
}

func TestApp_View_TerminalTooSmall(t *testing.T) {
	t.Parallel()
	a := resizedApp(t, newTestApp(), 40, 10)
	assert.Contains(t, a.View(), "Terminal too small")
}

func TestApp_View_FullLayout(t *testing.T) {
	t.Parallel()
	a := resizedApp(t, newTestApp(), 120, 40)

	model, _ := a.Update(SnapshotMsg{Snapshot: demoSnapshot().Snapshot})
	a = model.(App)

	view := a.View()
	assert.Contains(t, view, "stagehand v1.2.3")
	assert.Contains(t, view, "phase_draft")
	assert.Contains(t, view, "Transitions")
}

func TestApp_Update_QuitKeys(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := resizedApp(t, newTestApp(), 120, 40)

			model, cmd := a.Update(tc.msg)
			require.NotNil(t, cmd)
			assert.Empty(t, model.(App).View(), "quitting view must clear the screen")
		})
	}
}

func TestApp_Update_TickSchedulesPoll(t *testing.T) {
	t.Parallel()
	a := resizedApp(t, newTestApp(), 120, 40)

	_, cmd := a.Update(TickMsg{Time: time.Now()})
	assert.NotNil(t, cmd)
}

func TestApp_Update_TransitionFeedsEventLog(t *testing.T) {
	t.Parallel()
	a := resizedApp(t, newTestApp(), 120, 40)

	model, _ := a.Update(TransitionMsg{Event: workflow.TransitionEvent{
		Type:      workflow.EvPhaseAdvanced,
		NextPhase: "phase_draft",
		Branch:    "article",
	}})
	a = model.(App)

	assert.Contains(t, a.View(), "advanced to phase_draft (article)")
}

func TestApp_Init_ReturnsCommands(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, newTestApp().Init())
}

func TestApp_PollCmd_DeliversSnapshot(t *testing.T) {
	t.Parallel()
	a := newTestApp()

	msg := a.pollCmd()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.NoError(t, snap.Err)
	assert.Equal(t, "content-pipeline", snap.Snapshot.WorkflowID)
}

func TestApp_PollCmd_NilPollFunc(t *testing.T) {
	t.Parallel()
	a := NewApp(AppConfig{Slot: "default"})

	msg := a.pollCmd()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	assert.False(t, snap.Snapshot.Active)
}
