package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/b-hartley/claude-usage-tui/internal/credentials"
	"github.com/b-hartley/claude-usage-tui/internal/ui/styles"
	"github.com/b-hartley/claude-usage-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the effective configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		path := m.config.Path
		if path == "" {
			path = "(defaults, no config file)"
		}
		rows = append(rows, m.renderConfigRow("Config File", path))
		rows = append(rows, m.renderConfigRow("Timeframe", m.config.Timeframe))
		rows = append(rows, m.renderConfigRow("Report Refresh", m.config.RefreshInterval.String()))
		rows = append(rows, m.renderConfigRow("Session Poll", m.config.SessionPollInterval.String()))
		rows = append(rows, m.renderConfigRow("Request Timeout", m.config.RequestTimeout.String()))
		rows = append(rows, m.renderConfigRow("Admin API Key", m.renderKeySource()))
		if m.config.APIBaseURL != "" {
			rows = append(rows, m.renderConfigRow("API Base URL", m.config.APIBaseURL))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderKeySource shows where the admin key comes from without exposing it.
func (m *Model) renderKeySource() string {
	if m.config.AdminAPIKey != "" {
		return credentials.MaskKey(m.config.AdminAPIKey) + " (config)"
	}
	return "from keychain"
}

func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Claude Usage TUI"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Built", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	if rep := m.state.GetReport(); rep != nil {
		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("Last report: %s", styles.InfoTextStyle.Render(
			rep.FetchedAt.Local().Format("15:04:05"))))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
