package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusBarModel manages the bottom status bar of the watch dashboard. It
// tracks the watched slot, the running workflow, the current phase position,
// and a progress bar derived from the phase index. The view renders all
// fields in a single line with styled separators.
//
// StatusBarModel follows Bubble Tea's Elm architecture: Update returns a new
// value, and View is a pure function of the model state.
type StatusBarModel struct {
	theme Theme
	width int

	slot string

	// Dynamic state updated by incoming snapshots.
	active     bool
	workflow   string
	phase      string
	phaseIndex int
	phaseCount int
	completed  bool
	updatedAt  time.Time
	now        time.Time
}

// NewStatusBarModel creates a StatusBarModel watching the given slot.
func NewStatusBarModel(theme Theme, slot string) StatusBarModel {
	return StatusBarModel{
		theme: theme,
		slot:  slot,
		now:   time.Now(),
	}
}

// SetWidth updates the status bar width. This should be called whenever the
// parent App processes a tea.WindowSizeMsg.
func (sb *StatusBarModel) SetWidth(width int) {
	sb.width = width
}

// Update processes messages that affect status bar content and returns the
// updated model.
//
// Handled messages:
//   - SnapshotMsg: replaces the slot view; poll errors are ignored here
//     and surfaced by the event log instead.
//   - TickMsg: advances the clock used for the "updated Ns ago" label.
func (sb StatusBarModel) Update(msg tea.Msg) StatusBarModel {
	switch m := msg.(type) {
	case SnapshotMsg:
		if m.Err != nil {
			return sb
		}
		sb.active = m.Snapshot.Active
		sb.workflow = m.Snapshot.WorkflowID
		sb.phase = m.Snapshot.CurrentPhase
		sb.completed = m.Snapshot.Completed
		sb.updatedAt = m.Snapshot.UpdatedAt
		sb.phaseCount = len(m.Snapshot.Phases)
		sb.phaseIndex = 0
		for i, row := range m.Snapshot.Phases {
			if row.Status == PhaseActive {
				sb.phaseIndex = i
				break
			}
		}

	case TickMsg:
		sb.now = m.Time
	}

	return sb
}

// View renders the status bar as a single full-width line. Fields are
// separated by a styled " | ". An inactive slot renders a short idle line.
func (sb StatusBarModel) View() string {
	if sb.width <= 0 {
		return ""
	}

	sep := sb.theme.StatusSeparator.Render(" | ")

	segments := []string{
		sb.theme.StatusKey.Render("slot ") + sb.theme.StatusValue.Render(sb.slot),
	}

	if !sb.active {
		segments = append(segments, sb.theme.StatusValue.Render("no active workflow"))
	} else {
		segments = append(segments,
			sb.theme.StatusKey.Render("workflow ")+sb.theme.StatusValue.Render(sb.workflow),
			sb.theme.StatusKey.Render("phase ")+sb.theme.StatusValue.Render(sb.phaseLabel()),
		)

		if sb.completed {
			segments = append(segments, sb.theme.StatusCompleted.Render("completed"))
		} else if sb.phaseCount > 0 {
			pct := float64(sb.phaseIndex) / float64(sb.phaseCount)
			segments = append(segments,
				sb.theme.ProgressBar(pct, 12)+" "+
					sb.theme.ProgressPercent.Render(fmt.Sprintf("%3.0f%%", pct*100)))
		}

		if !sb.updatedAt.IsZero() {
			segments = append(segments, sb.theme.StatusValue.Render("updated "+sb.updatedAgo()))
		}
	}

	line := strings.Join(segments, sep)

	return sb.theme.StatusBar.Width(sb.width).Render(line)
}

// phaseLabel formats the current phase as "id (i/n)" when the phase count is
// known, or the bare phase identifier otherwise.
func (sb StatusBarModel) phaseLabel() string {
	if sb.phaseCount > 0 {
		return fmt.Sprintf("%s (%d/%d)", sb.phase, sb.phaseIndex+1, sb.phaseCount)
	}
	return sb.phase
}

// updatedAgo formats the time since the last run-state write in coarse
// human units.
func (sb StatusBarModel) updatedAgo() string {
	now := sb.now
	if now.IsZero() {
		now = time.Now()
	}

	d := now.Sub(sb.updatedAt)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
