package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPhasePanel() PhasePanelModel {
	pp := NewPhasePanelModel(DefaultTheme())
	pp.SetDimensions(40, 20)
	return pp
}

func TestPhasePanel_View_NoActiveWorkflow(t *testing.T) {
	t.Parallel()
	pp := newTestPhasePanel()
	pp = pp.Update(SnapshotMsg{Snapshot: StatusSnapshot{Active: false}})

	assert.Contains(t, pp.View(), "No active workflow")
}

func TestPhasePanel_View_ListsPhases(t *testing.T) {
	t.Parallel()
	pp := newTestPhasePanel()
	pp = pp.Update(demoSnapshot())

	view := pp.View()
	assert.Contains(t, view, "phase_intake")
	assert.Contains(t, view, "phase_draft")
	assert.Contains(t, view, "phase_publish")
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "●")
	assert.Contains(t, view, "○")
}

func TestPhasePanel_View_TitleFallsBackToWorkflowID(t *testing.T) {
	t.Parallel()
	pp := newTestPhasePanel()

	msg := demoSnapshot()
	msg.Snapshot.WorkflowName = ""
	pp = pp.Update(msg)

	assert.Contains(t, pp.View(), "content-pipeline")
}

func TestPhasePanel_View_BranchHistorySection(t *testing.T) {
	t.Parallel()
	pp := newTestPhasePanel()

	msg := demoSnapshot()
	msg.Snapshot.BranchHistory = []string{"phase_intake -> phase_draft (article)"}
	pp = pp.Update(msg)

	view := pp.View()
	assert.Contains(t, view, "Branches")
	assert.Contains(t, view, "phase_intake -> phase_draft (article)")
}

func TestPhasePanel_Update_PollErrorKeepsState(t *testing.T) {
	t.Parallel()
	pp := newTestPhasePanel()

	pp = pp.Update(demoSnapshot())
	pp = pp.Update(SnapshotMsg{Err: assert.AnError})

	assert.Contains(t, pp.View(), "phase_draft")
}

func TestPhasePanel_View_EmptyWithoutDimensions(t *testing.T) {
	t.Parallel()
	pp := NewPhasePanelModel(DefaultTheme())
	assert.Empty(t, pp.View())
}
