package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Color Palette
// ---------------------------------------------------------------------------

// ColorPrimary is the main brand/accent color used for titles and highlights.
var ColorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7B78FF"}

// ColorAccent is a green-teal accent for the active phase and live indicators.
var ColorAccent = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}

// ColorSuccess represents completed phases and successful transitions (green).
var ColorSuccess = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// ColorWarning represents cautionary states such as unresolved branches (amber).
var ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// ColorError represents failed transitions and error states (red).
var ColorError = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// ColorMuted is a subdued foreground color for secondary text.
var ColorMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// ColorSubtle provides very low-contrast borders and dividers.
var ColorSubtle = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// ColorBorder is the standard panel border color.
var ColorBorder = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}

// ColorHighlight is a background highlight for the status bar and the
// currently active phase row.
var ColorHighlight = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}

// ---------------------------------------------------------------------------
// Theme
// ---------------------------------------------------------------------------

// Theme holds all Lipgloss styles for the watch dashboard. Every field is a
// pre-built lipgloss.Style value. Width and Height are NOT set on any theme
// style; those are applied dynamically at render time.
type Theme struct {
	// Title bar
	TitleBar     lipgloss.Style
	TitleVersion lipgloss.Style

	// Phase panel
	PhasePanel   lipgloss.Style
	PhaseTitle   lipgloss.Style
	PhaseItem    lipgloss.Style
	PhaseCurrent lipgloss.Style
	PhaseDone    lipgloss.Style

	// Event log
	EventContainer lipgloss.Style
	EventTimestamp lipgloss.Style
	EventMessage   lipgloss.Style

	// Status bar
	StatusBar       lipgloss.Style
	StatusKey       lipgloss.Style
	StatusValue     lipgloss.Style
	StatusSeparator lipgloss.Style

	// Progress bar
	ProgressFilled  lipgloss.Style
	ProgressEmpty   lipgloss.Style
	ProgressPercent lipgloss.Style

	// Phase status indicators
	StatusActive    lipgloss.Style
	StatusCompleted lipgloss.Style
	StatusFailed    lipgloss.Style
	StatusPending   lipgloss.Style

	// General
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	ErrorText lipgloss.Style
}

// DefaultTheme returns the default dashboard theme with adaptive colors.
// All colors use lipgloss.AdaptiveColor for automatic light/dark terminal
// support.
func DefaultTheme() Theme {
	return Theme{
		// --- Title bar ---
		TitleBar: lipgloss.NewStyle().
			Bold(true).
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),

		TitleVersion: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#E0DFFF", Dark: "#C4C2FF"}),

		// --- Phase panel ---
		PhasePanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			PaddingLeft(1),

		PhaseTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),

		PhaseItem: lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(1),

		PhaseCurrent: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Background(ColorHighlight).
			PaddingLeft(1),

		PhaseDone: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			PaddingLeft(1),

		// --- Event log ---
		EventContainer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		EventTimestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		EventMessage: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}),

		// --- Status bar ---
		StatusBar: lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(ColorMuted).
			Padding(0, 1),

		StatusKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		StatusValue: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}),

		StatusSeparator: lipgloss.NewStyle().
			Foreground(ColorSubtle),

		// --- Progress bar ---
		ProgressFilled: lipgloss.NewStyle().
			Foreground(ColorAccent),

		ProgressEmpty: lipgloss.NewStyle().
			Foreground(ColorSubtle),

		ProgressPercent: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),

		// --- Phase status indicators ---
		StatusActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),

		StatusCompleted: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		StatusFailed: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),

		StatusPending: lipgloss.NewStyle().
			Foreground(ColorMuted),

		// --- General ---
		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		HelpDesc: lipgloss.NewStyle().
			Foreground(ColorMuted),

		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
	}
}

// PhaseStatus classifies a phase row for indicator rendering.
type PhaseStatus int

const (
	// PhasePending means the phase has not been reached yet.
	PhasePending PhaseStatus = iota
	// PhaseActive means the phase is the workflow's current phase.
	PhaseActive
	// PhaseCompleted means the workflow has already moved past the phase.
	PhaseCompleted
	// PhaseFailed means the last transition out of the phase failed.
	PhaseFailed
)

// StatusIndicator returns a styled Unicode symbol string for the given
// PhaseStatus. The returned string is ready to embed in a view.
//
// Symbol mapping:
//   - PhaseActive    → "●" (filled circle, green/accent)
//   - PhaseCompleted → "✓" (check mark, success green)
//   - PhaseFailed    → "!" (exclamation, red)
//   - PhasePending   → "○" (open circle, muted)
func (t Theme) StatusIndicator(status PhaseStatus) string {
	switch status {
	case PhaseActive:
		return t.StatusActive.Render("●")
	case PhaseCompleted:
		return t.StatusCompleted.Render("✓")
	case PhaseFailed:
		return t.StatusFailed.Render("!")
	default: // PhasePending and any unknown value
		return t.StatusPending.Render("○")
	}
}

// ProgressBar renders a text-based progress bar of the given total width.
// filled is clamped to [0.0, 1.0]; width <= 0 returns an empty string.
// Uses U+2588 (FULL BLOCK) for filled cells and U+2591 (LIGHT SHADE) for
// empty cells. The filled and empty portions are styled independently using
// the theme's ProgressFilled and ProgressEmpty styles.
func (t Theme) ProgressBar(filled float64, width int) string {
	if width <= 0 {
		return ""
	}

	if filled < 0.0 {
		filled = 0.0
	}
	if filled > 1.0 {
		filled = 1.0
	}

	filledCount := int(filled * float64(width))
	emptyCount := width - filledCount

	var sb strings.Builder
	if filledCount > 0 {
		sb.WriteString(t.ProgressFilled.Render(strings.Repeat("█", filledCount)))
	}
	if emptyCount > 0 {
		sb.WriteString(t.ProgressEmpty.Render(strings.Repeat("░", emptyCount)))
	}
	return sb.String()
}
