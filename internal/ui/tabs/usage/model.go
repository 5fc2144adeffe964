// Package usage provides the aggregate usage report tab.
package usage

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/b-hartley/claude-usage-tui/internal/app"
	"github.com/b-hartley/claude-usage-tui/internal/services/report"
	"github.com/b-hartley/claude-usage-tui/internal/ui/components"
)

// timeframes in cycle order.
var timeframes = []string{report.TimeframeToday, report.Timeframe7Days, report.Timeframe30Days}

// keyMap defines the key bindings specific to the usage tab.
type keyMap struct {
	Timeframe key.Binding
	Refresh   key.Binding
	Up        key.Binding
	Down      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Timeframe: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle timeframe"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the usage tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model

	timeframe string
	width     int
	height    int
}

// New creates a new usage tab model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:     state,
		commands:  commands,
		spinner:   components.NewSpinner("Fetching usage report..."),
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeframe: report.TimeframeToday,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKeyMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case app.TimeframeChangedMsg:
		m.timeframe = msg.Timeframe

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Timeframe):
		next := m.nextTimeframe()
		if m.commands != nil {
			return m.commands.SetTimeframe(next)
		}
		m.timeframe = next
		return nil
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) nextTimeframe() string {
	for i, tf := range timeframes {
		if tf == m.timeframe {
			return timeframes[(i+1)%len(timeframes)]
		}
	}
	return report.TimeframeToday
}

// SetSize sets the available size for the usage tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Timeframe,
		m.keys.Refresh,
	}
}
