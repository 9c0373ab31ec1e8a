package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PhasePanelModel is the Bubble Tea sub-model for the left-hand phase panel.
// It lists every phase of the watched workflow in declaration order with a
// status indicator, and renders the recorded branch history underneath.
//
// PhasePanelModel follows Bubble Tea's Elm architecture: Update returns a
// new value, and View is a pure function of the model state.
type PhasePanelModel struct {
	theme  Theme
	width  int
	height int

	workflowName string
	phases       []PhaseRow
	history      []string
	active       bool
}

// NewPhasePanelModel creates an empty PhasePanelModel with the given theme.
func NewPhasePanelModel(theme Theme) PhasePanelModel {
	return PhasePanelModel{theme: theme}
}

// SetDimensions updates the panel width and height.
func (pp *PhasePanelModel) SetDimensions(width, height int) {
	pp.width = width
	pp.height = height
}

// Update applies snapshot messages to the panel state. Poll errors keep the
// previous snapshot on screen.
func (pp PhasePanelModel) Update(msg tea.Msg) PhasePanelModel {
	m, ok := msg.(SnapshotMsg)
	if !ok || m.Err != nil {
		return pp
	}

	pp.active = m.Snapshot.Active
	pp.workflowName = m.Snapshot.WorkflowName
	if pp.workflowName == "" {
		pp.workflowName = m.Snapshot.WorkflowID
	}
	pp.phases = m.Snapshot.Phases
	pp.history = m.Snapshot.BranchHistory
	return pp
}

// View renders the phase panel. It returns an empty string when dimensions
// have not been set, and a placeholder when the slot holds no run-state.
func (pp PhasePanelModel) View() string {
	if pp.width <= 0 || pp.height <= 0 {
		return ""
	}

	var sb strings.Builder

	title := "Phases"
	if pp.workflowName != "" {
		title = pp.workflowName
	}
	sb.WriteString(pp.theme.PhaseTitle.Render(title))
	sb.WriteString("\n")

	if !pp.active {
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render("No active workflow"))
		return pp.theme.PhasePanel.Width(pp.width).Height(pp.height).Render(sb.String())
	}

	for _, row := range pp.phases {
		sb.WriteString(pp.renderPhaseRow(row))
		sb.WriteString("\n")
	}

	if len(pp.history) > 0 {
		sb.WriteString("\n")
		sb.WriteString(pp.theme.PhaseTitle.Render("Branches"))
		sb.WriteString("\n")
		for _, entry := range pp.history {
			sb.WriteString(pp.theme.PhaseItem.Render(entry))
			sb.WriteString("\n")
		}
	}

	return pp.theme.PhasePanel.Width(pp.width).Height(pp.height).Render(sb.String())
}

// renderPhaseRow renders one "indicator id" line styled by phase status.
func (pp PhasePanelModel) renderPhaseRow(row PhaseRow) string {
	label := row.ID
	if row.Name != "" && row.Name != row.ID {
		label = row.ID + "  " + row.Name
	}

	indicator := pp.theme.StatusIndicator(row.Status)

	var style lipgloss.Style
	switch row.Status {
	case PhaseActive:
		style = pp.theme.PhaseCurrent
	case PhaseCompleted:
		style = pp.theme.PhaseDone
	default:
		style = pp.theme.PhaseItem
	}

	return indicator + " " + style.Render(label)
}
