package session

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/b-hartley/claude-usage-tui/internal/models"
	sessionsvc "github.com/b-hartley/claude-usage-tui/internal/services/session"
	"github.com/b-hartley/claude-usage-tui/internal/ui/components"
	"github.com/b-hartley/claude-usage-tui/internal/ui/format"
	"github.com/b-hartley/claude-usage-tui/internal/ui/styles"
)

// View renders the session tab.
func (m *Model) View() string {
	snapshot := m.state.GetSnapshot()

	if snapshot == nil && m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle())

	if snapshot == nil {
		sections = append(sections, m.renderUnavailable())
	} else {
		sections = append(sections, m.renderLimits(snapshot))
		sections = append(sections, m.renderExtraUsage(snapshot.ExtraUsage))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Session Limits")
	subtitle := styles.HelpStyle.Render("Rolling quota windows for this account")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderUnavailable() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Session Usage"))
	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Session usage unavailable"))
	rows = append(rows, styles.HelpStyle.Render("Log in with Claude Code to populate OAuth credentials"))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderLimits(snapshot *models.SessionUsageSnapshot) string {
	cardWidth := max(m.width-6, 40)
	contentWidth := max(cardWidth-6, 30)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Limit Windows"))
	rows = append(rows, "")

	rows = append(rows, m.renderWindow("5-hour", snapshot.FiveHour, contentWidth)...)
	rows = append(rows, "")
	rows = append(rows, m.renderWindow("Weekly", snapshot.SevenDay, contentWidth)...)
	rows = append(rows, "")
	rows = append(rows, m.renderWindow("Weekly (Sonnet)", snapshot.SevenDaySonnet, contentWidth)...)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderWindow renders one limit window as a labelled bar plus its
// reset time. A nil window means the account tier does not expose it.
func (m *Model) renderWindow(label string, window *models.LimitWindow, width int) []string {
	var lines []string

	labelStr := lipgloss.NewStyle().Bold(true).Foreground(styles.Secondary).Render(label)
	lines = append(lines, "  "+labelStr)

	if window == nil {
		lines = append(lines, "  "+components.SimpleUsageBar(0, "", width-4))
		lines = append(lines, "  "+styles.HelpStyle.Render("Resets: --"))
		return lines
	}

	lines = append(lines, "  "+components.SimpleUsageBar(window.Utilization, "", width-4))

	reset := sessionsvc.FormatResetTime(window.ResetsAt)
	resetStyle := styles.HelpStyle
	if reset == "?" {
		resetStyle = styles.WarningTextStyle
	}
	lines = append(lines, "  "+resetStyle.Render("Resets: "+reset))

	return lines
}

func (m *Model) renderExtraUsage(extra *models.ExtraUsage) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Extra Usage"))
	rows = append(rows, "")

	if extra == nil || !extra.IsEnabled {
		rows = append(rows, styles.HelpStyle.Render("Extra: disabled"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	used := format.Credits(float64(extra.UsedCredits))
	limit := format.Credits(float64(extra.MonthlyLimit))
	pct := styles.GetUsageStyle(extra.Utilization).Render(format.Percent(extra.Utilization))

	rows = append(rows, fmt.Sprintf("  %s of %s this month (%s)", used, limit, pct))
	rows = append(rows, "  "+components.SimpleUsageBar(extra.Utilization, "", max(cardWidth-10, 26)))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
