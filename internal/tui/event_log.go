package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// MaxEventLogEntries is the maximum number of entries retained in the event
// log. When the buffer is full the oldest entry is evicted to make room.
const MaxEventLogEntries = 500

// ---------------------------------------------------------------------------
// EventCategory
// ---------------------------------------------------------------------------

// EventCategory classifies an event log entry for colour-coded display.
type EventCategory int

const (
	// EventInfo is the default category for informational messages.
	EventInfo EventCategory = iota
	// EventSuccess indicates a committed transition or completion.
	EventSuccess
	// EventWarning indicates a cautionary condition such as an
	// unresolved branch.
	EventWarning
	// EventError indicates a failed transition.
	EventError
)

// ---------------------------------------------------------------------------
// EventEntry
// ---------------------------------------------------------------------------

// EventEntry is a single entry in the event log ring buffer.
type EventEntry struct {
	// Timestamp records when the event occurred.
	Timestamp time.Time
	// Category classifies the entry for display purposes.
	Category EventCategory
	// Message is the human-readable description of the event.
	Message string
}

// ---------------------------------------------------------------------------
// EventLogModel
// ---------------------------------------------------------------------------

// EventLogModel is the Bubble Tea sub-model for the scrollable transition
// log panel rendered on the right side of the watch dashboard. It maintains
// a bounded ring buffer of EventEntry values and drives a bubbles/viewport
// for display.
//
// EventLogModel follows Bubble Tea's Elm architecture: Update returns a new
// value, and View is a pure function of the model state.
type EventLogModel struct {
	theme      Theme
	width      int
	height     int
	entries    []EventEntry
	viewport   viewport.Model
	autoScroll bool
}

// NewEventLogModel creates an EventLogModel with auto-scroll enabled. The
// entries buffer starts empty.
func NewEventLogModel(theme Theme) EventLogModel {
	return EventLogModel{
		theme:      theme,
		autoScroll: true,
		viewport:   viewport.New(0, 0),
	}
}

// SetDimensions updates the panel width and height and resizes the internal
// viewport. The viewport height is (height - 1) to reserve one row for the
// panel header.
func (el *EventLogModel) SetDimensions(width, height int) {
	el.width = width
	el.height = height

	vpHeight := height - 1
	if vpHeight < 0 {
		vpHeight = 0
	}
	el.viewport.Width = width
	el.viewport.Height = vpHeight

	el.rebuildContent()
}

// Entries returns the retained log entries, oldest first.
func (el EventLogModel) Entries() []EventEntry {
	return el.entries
}

// AddEntry appends a new EventEntry to the log. When the buffer exceeds
// MaxEventLogEntries the oldest entry is evicted. The viewport content is
// rebuilt after every insertion and, when autoScroll is enabled, the
// viewport is scrolled to the bottom.
func (el *EventLogModel) AddEntry(category EventCategory, message string) {
	entry := EventEntry{
		Timestamp: time.Now(),
		Category:  category,
		Message:   message,
	}

	el.entries = append(el.entries, entry)

	if len(el.entries) > MaxEventLogEntries {
		el.entries = el.entries[len(el.entries)-MaxEventLogEntries:]
	}

	el.rebuildContent()
}

// rebuildContent replaces the viewport content with all formatted entries
// joined by newlines, then auto-scrolls if enabled.
func (el *EventLogModel) rebuildContent() {
	if len(el.entries) == 0 {
		el.viewport.SetContent("")
		return
	}

	lines := make([]string, len(el.entries))
	for i, e := range el.entries {
		lines[i] = el.formatEntry(e)
	}
	el.viewport.SetContent(strings.Join(lines, "\n"))

	if el.autoScroll {
		el.viewport.GotoBottom()
	}
}

// formatEntry renders a single EventEntry as "HH:MM:SS message". The
// timestamp is styled with EventTimestamp (muted colour) and the message is
// styled according to its category.
func (el EventLogModel) formatEntry(entry EventEntry) string {
	ts := el.theme.EventTimestamp.Render(entry.Timestamp.Format("15:04:05"))
	msg := el.categoryStyle(entry.Category).Render(entry.Message)
	return ts + " " + msg
}

// categoryStyle returns the lipgloss style appropriate for the given category.
func (el EventLogModel) categoryStyle(cat EventCategory) lipgloss.Style {
	switch cat {
	case EventSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case EventWarning:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case EventError:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	default: // EventInfo
		return el.theme.EventMessage
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update processes incoming tea.Msg values and returns the updated model.
//
// Handled messages:
//   - TransitionMsg: classified and added to the log
//   - SnapshotMsg: poll errors are added as EventError
//   - tea.KeyMsg: navigation keys forwarded to the viewport
func (el EventLogModel) Update(msg tea.Msg) EventLogModel {
	switch msg := msg.(type) {
	case TransitionMsg:
		cat, text := classifyTransition(msg.Event)
		el.AddEntry(cat, text)

	case SnapshotMsg:
		if msg.Err != nil {
			el.AddEntry(EventError, msg.Err.Error())
		}

	case tea.KeyMsg:
		return el.handleKey(msg)
	}

	return el
}

// handleKey routes navigation key events to the viewport and manages the
// autoScroll flag.
func (el EventLogModel) handleKey(msg tea.KeyMsg) EventLogModel {
	switch msg.Type {
	case tea.KeyUp:
		el.viewport.ScrollUp(1)
		el.autoScroll = false

	case tea.KeyDown:
		el.viewport.ScrollDown(1)
		if el.viewport.AtBottom() {
			el.autoScroll = true
		}

	case tea.KeyPgUp:
		el.viewport.PageUp()
		el.autoScroll = false

	case tea.KeyPgDown:
		el.viewport.PageDown()
		if el.viewport.AtBottom() {
			el.autoScroll = true
		}

	case tea.KeyEnd:
		el.viewport.GotoBottom()
		el.autoScroll = true

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "k":
			el.viewport.ScrollUp(1)
			el.autoScroll = false
		case "j":
			el.viewport.ScrollDown(1)
			if el.viewport.AtBottom() {
				el.autoScroll = true
			}
		case "g":
			el.viewport.GotoTop()
			el.autoScroll = false
		case "G":
			el.viewport.GotoBottom()
			el.autoScroll = true
		}

	default:
	}

	return el
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the event log panel as a string. It returns an empty string
// when dimensions have not been set. The rendered output consists of a
// one-line header followed by the scrollable viewport.
func (el EventLogModel) View() string {
	if el.width <= 0 || el.height <= 0 {
		return ""
	}

	var sb strings.Builder

	header := el.theme.PhaseTitle.Render("Transitions")
	sb.WriteString(header)
	sb.WriteString("\n")

	if len(el.entries) == 0 {
		placeholder := lipgloss.NewStyle().Foreground(ColorMuted).Render("No transitions yet")
		sb.WriteString(placeholder)
	} else {
		sb.WriteString(el.viewport.View())
	}

	return el.theme.EventContainer.
		Width(el.width).
		Render(sb.String())
}

// ---------------------------------------------------------------------------
// Classify helpers
// ---------------------------------------------------------------------------

// classifyTransition maps a workflow.TransitionEvent to an EventCategory and
// a human-readable log message. The engine's Message field already carries a
// full sentence; the fallbacks only cover hand-built events.
func classifyTransition(ev workflow.TransitionEvent) (EventCategory, string) {
	var cat EventCategory
	switch ev.Type {
	case workflow.EvPhaseAdvanced, workflow.EvWorkflowCompleted:
		cat = EventSuccess
	case workflow.EvTransitionFailed:
		cat = EventError
	default:
		cat = EventInfo
	}

	if ev.Type == workflow.EvTransitionFailed && ev.Error != "" {
		return cat, fmt.Sprintf("Transition failed: %s", ev.Error)
	}
	if ev.Message != "" {
		return cat, ev.Message
	}

	switch ev.Type {
	case workflow.EvPhaseAdvanced:
		if ev.Branch != "" {
			return cat, fmt.Sprintf("advanced to %s (%s)", ev.NextPhase, ev.Branch)
		}
		return cat, fmt.Sprintf("advanced to %s", ev.NextPhase)
	case workflow.EvTransitionFailed:
		return cat, "Transition failed"
	default:
		return cat, ev.Type
	}
}
