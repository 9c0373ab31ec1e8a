package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// Color palette vars
// ---------------------------------------------------------------------------

func TestColorPalette_AllDefined(t *testing.T) {
	t.Parallel()
	// Verify that every package-level color var has non-empty Light and Dark hex values.
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"ColorPrimary", ColorPrimary},
		{"ColorAccent", ColorAccent},
		{"ColorSuccess", ColorSuccess},
		{"ColorWarning", ColorWarning},
		{"ColorError", ColorError},
		{"ColorMuted", ColorMuted},
		{"ColorSubtle", ColorSubtle},
		{"ColorBorder", ColorBorder},
		{"ColorHighlight", ColorHighlight},
	}
	for _, c := range colors {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.NotEmpty(t, c.color.Light, "%s Light color must not be empty", c.name)
			assert.NotEmpty(t, c.color.Dark, "%s Dark color must not be empty", c.name)
		})
	}
}

// ---------------------------------------------------------------------------
// StatusIndicator
// ---------------------------------------------------------------------------

func TestStatusIndicator_SymbolMapping(t *testing.T) {
	t.Parallel()
	theme := DefaultTheme()

	cases := []struct {
		name   string
		status PhaseStatus
		symbol string
	}{
		{"active", PhaseActive, "●"},
		{"completed", PhaseCompleted, "✓"},
		{"failed", PhaseFailed, "!"},
		{"pending", PhasePending, "○"},
		{"unknown value", PhaseStatus(99), "○"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, theme.StatusIndicator(tc.status), tc.symbol)
		})
	}
}

// ---------------------------------------------------------------------------
// ProgressBar
// ---------------------------------------------------------------------------

func TestProgressBar_ZeroWidth(t *testing.T) {
	t.Parallel()
	theme := DefaultTheme()
	assert.Empty(t, theme.ProgressBar(0.5, 0))
	assert.Empty(t, theme.ProgressBar(0.5, -3))
}

func TestProgressBar_CellCounts(t *testing.T) {
	t.Parallel()
	theme := DefaultTheme()

	cases := []struct {
		name   string
		filled float64
		width  int
		full   int
		empty  int
	}{
		{"empty", 0.0, 10, 0, 10},
		{"half", 0.5, 10, 5, 5},
		{"full", 1.0, 10, 10, 0},
		{"clamped below", -0.5, 10, 0, 10},
		{"clamped above", 1.7, 10, 10, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			bar := theme.ProgressBar(tc.filled, tc.width)
			assert.Equal(t, tc.full, strings.Count(bar, "█"))
			assert.Equal(t, tc.empty, strings.Count(bar, "░"))
		})
	}
}
