package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parkerhale/stagehand/internal/logging"
	"github.com/parkerhale/stagehand/internal/workflow"
)

// DefaultPollInterval is how often the dashboard re-reads the run-state when
// AppConfig.PollInterval is zero. Transitions are driven by other processes,
// so the dashboard cannot rely on the event channel alone.
const DefaultPollInterval = time.Second

// AppConfig holds configuration for the watch dashboard.
type AppConfig struct {
	// Version is the stagehand semantic version string (e.g. "2.0.0").
	Version string
	// ProjectName is the name of the current project, if configured.
	ProjectName string
	// Slot is the run-state slot being watched.
	Slot string
	// Poll reads the current run-state and definition for the watched
	// slot. It is called on every tick.
	Poll func() (StatusSnapshot, error)
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
	// Events optionally receives engine TransitionEvents for transitions
	// made in this process.
	Events <-chan workflow.TransitionEvent
	// Ctx cancels the event bridge goroutines. A nil Ctx means
	// context.Background().
	Ctx context.Context
}

// App is the top-level Bubble Tea model for the stagehand watch dashboard.
// It implements tea.Model (Init, Update, View) and composes the phase panel,
// the transition log, and the status bar.
type App struct {
	config   AppConfig
	ctx      context.Context
	bridge   EventBridge
	theme    Theme
	interval time.Duration

	width    int
	height   int
	ready    bool // true after first WindowSizeMsg
	quitting bool

	phasePanel PhasePanelModel
	eventLog   EventLogModel
	statusBar  StatusBarModel
}

// NewApp constructs an App from the given config with all sub-models built
// from the default theme.
func NewApp(cfg AppConfig) App {
	theme := DefaultTheme()

	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return App{
		config:     cfg,
		ctx:        ctx,
		bridge:     NewEventBridge(),
		theme:      theme,
		interval:   interval,
		phasePanel: NewPhasePanelModel(theme),
		eventLog:   NewEventLogModel(theme),
		statusBar:  NewStatusBarModel(theme, cfg.Slot),
	}
}

// Init kicks off the first poll, the poll timer, and the event bridge.
// bubbletea v1.x automatically sends a WindowSizeMsg on startup, so no
// explicit size command is required here.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.pollCmd(), tickCmd(a.interval)}
	if a.config.Events != nil {
		cmds = append(cmds, a.bridge.TransitionCmd(a.ctx, a.config.Events))
	}
	return tea.Batch(cmds...)
}

// pollCmd returns a tea.Cmd that runs one poll and delivers a SnapshotMsg.
func (a App) pollCmd() tea.Cmd {
	return func() tea.Msg {
		if a.config.Poll == nil {
			return SnapshotMsg{}
		}
		snap, err := a.config.Poll()
		return SnapshotMsg{Snapshot: snap, Err: err}
	}
}

// Update dispatches incoming messages and returns the updated model plus any
// follow-up command. It handles window resizing and quit key bindings; all
// other messages are forwarded to the sub-models.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.ready = true
		a.layout()
		return a, nil

	case tea.KeyMsg:
		switch m.Type {
		case tea.KeyCtrlC:
			a.quitting = true
			return a, tea.Quit
		case tea.KeyRunes:
			if string(m.Runes) == "q" {
				a.quitting = true
				return a, tea.Quit
			}
		}
		a.eventLog = a.eventLog.Update(m)
		return a, nil

	case TickMsg:
		a.statusBar = a.statusBar.Update(m)
		return a, tea.Batch(a.pollCmd(), tickCmd(a.interval))

	case SnapshotMsg:
		a.phasePanel = a.phasePanel.Update(m)
		a.statusBar = a.statusBar.Update(m)
		a.eventLog = a.eventLog.Update(m)
		return a, nil

	case TransitionMsg:
		a.eventLog = a.eventLog.Update(m)
		// Re-arm the bridge so the next event is picked up too.
		if a.config.Events != nil {
			return a, a.bridge.TransitionCmd(a.ctx, a.config.Events)
		}
		return a, nil
	}

	return a, nil
}

// layout distributes the current terminal size across the sub-models. One
// row is reserved for the title bar and one for the status bar; the phase
// panel takes a third of the width with the transition log filling the rest.
func (a *App) layout() {
	bodyHeight := a.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	panelWidth := a.width / 3
	if panelWidth < 30 {
		panelWidth = 30
	}
	if panelWidth > a.width {
		panelWidth = a.width
	}

	logWidth := a.width - panelWidth - 4
	if logWidth < 0 {
		logWidth = 0
	}

	a.phasePanel.SetDimensions(panelWidth, bodyHeight)
	a.eventLog.SetDimensions(logWidth, bodyHeight)
	a.statusBar.SetWidth(a.width)
}

// View renders the complete UI as a string.
//
// Rendering logic:
//   - If quitting, return an empty string to clear the screen on exit.
//   - If not yet ready (no WindowSizeMsg received), show an initializing message.
//   - If the terminal is too small (< 80 wide or < 24 tall), show a resize warning.
//   - Otherwise, render the title bar, the panels, and the status bar.
func (a App) View() string {
	if a.quitting {
		return ""
	}

	if !a.ready {
		return "Initializing stagehand..."
	}

	if a.width < 80 || a.height < 24 {
		return terminalTooSmallView()
	}

	return a.fullView()
}

// terminalTooSmallView returns a warning when the terminal is below the
// minimum supported dimensions (80x24).
func terminalTooSmallView() string {
	msg := "Terminal too small. Please resize to at least 80x24."
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("3")). // yellow
		Render(msg)
}

// fullView renders the complete dashboard layout.
func (a App) fullView() string {
	titleBar := a.renderTitleBar()
	body := lipgloss.JoinHorizontal(lipgloss.Top, a.phasePanel.View(), a.eventLog.View())
	return lipgloss.JoinVertical(lipgloss.Left, titleBar, body, a.statusBar.View())
}

// renderTitleBar builds a full-width title bar showing the stagehand version
// and the project name (when available).
func (a App) renderTitleBar() string {
	title := fmt.Sprintf("stagehand v%s - watch", a.config.Version)
	if a.config.ProjectName != "" {
		title = fmt.Sprintf("%s  |  %s", title, a.config.ProjectName)
	}

	return a.theme.TitleBar.Width(a.width).Render(title)
}

// RunTUI creates a tea.Program configured for full-screen rendering with
// cell-motion mouse support, runs it, and returns any error encountered.
//
// Use tea.WithMouseCellMotion (not WithMouseAllMotion) so that the user can
// still select and copy text from the terminal.
func RunTUI(cfg AppConfig) error {
	logger := logging.New("tui")
	logger.Info("starting watch dashboard", "version", cfg.Version, "slot", cfg.Slot)

	p := tea.NewProgram(
		NewApp(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
