package usage

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/b-hartley/claude-usage-tui/internal/models"
	"github.com/b-hartley/claude-usage-tui/internal/services/report"
	"github.com/b-hartley/claude-usage-tui/internal/ui/components"
	"github.com/b-hartley/claude-usage-tui/internal/ui/format"
	"github.com/b-hartley/claude-usage-tui/internal/ui/styles"
)

// View renders the usage tab.
func (m *Model) View() string {
	rep := m.state.GetReport()

	if rep == nil {
		if m.state.IsInitialLoading() {
			return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
		}
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			styles.HelpStyle.Render("No usage report yet. Press 'r' to refresh."),
		)
	}

	var sections []string
	sections = append(sections, m.renderTitle(rep))
	sections = append(sections, m.renderTotals(rep))
	sections = append(sections, m.renderByModel(rep))
	sections = append(sections, m.renderByCredential(rep))

	if len(rep.Daily) > 1 {
		sections = append(sections, m.renderDailyChart(rep))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(rep *models.AggregateReport) string {
	title := styles.TitleStyle.Render("Usage Report")

	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"%s  ·  %s - %s UTC",
		timeframeLabel(m.timeframe),
		rep.Window.Start.Format("Jan 02 15:04"),
		rep.Window.End.Format("Jan 02 15:04"),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func timeframeLabel(tf string) string {
	switch tf {
	case report.Timeframe7Days:
		return "Last 7 days"
	case report.Timeframe30Days:
		return "Last 30 days"
	default:
		return "Today"
	}
}

func (m *Model) renderTotals(rep *models.AggregateReport) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Totals"))
	rows = append(rows, "")
	rows = append(rows, m.renderStatRow("Input tokens", format.Tokens(rep.Total.InputTokens)))
	rows = append(rows, m.renderStatRow("Output tokens", format.Tokens(rep.Total.OutputTokens)))
	rows = append(rows, m.renderStatRow("Total tokens", format.Tokens(rep.Total.TotalTokens)))
	rows = append(rows, m.renderStatRow("Cost", format.Cost(rep.Total.CostUSD)))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStatRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderByModel(rep *models.AggregateReport) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("By Model"))
	rows = append(rows, "")

	if len(rep.ByModel) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No usage in this window"))
	} else {
		rows = append(rows, m.renderTableHeader("Model"))
		for _, ms := range rep.ByModel {
			rows = append(rows, m.renderUsageRow(ms.DisplayName, ms.Figures))
		}
	}

	if len(rep.ByModel) > 1 {
		values := make([]float64, len(rep.ByModel))
		labels := make([]string, len(rep.ByModel))
		for i, ms := range rep.ByModel {
			values[i] = float64(ms.Figures.TotalTokens)
			labels[i] = ms.DisplayName
		}
		rows = append(rows, "")
		rows = append(rows, components.RenderBarChart(values, labels, cardWidth-6))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderByCredential(rep *models.AggregateReport) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("By Credential"))
	rows = append(rows, "")

	if len(rep.ByCredential) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No usage in this window"))
	} else {
		rows = append(rows, m.renderTableHeader("Credential"))
		for _, cs := range rep.ByCredential {
			rows = append(rows, m.renderUsageRow(cs.DisplayHint, cs.Figures))
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTableHeader(name string) string {
	header := fmt.Sprintf("%-22s %10s %10s %10s", name, "Input", "Output", "Total")
	return styles.TableHeaderStyle.Render(header)
}

func (m *Model) renderUsageRow(name string, figures models.UsageFigures) string {
	if len(name) > 22 {
		name = name[:19] + "..."
	}
	return fmt.Sprintf("%-22s %10s %10s %10s",
		name,
		format.Tokens(figures.InputTokens),
		format.Tokens(figures.OutputTokens),
		format.Tokens(figures.TotalTokens),
	)
}

func (m *Model) renderDailyChart(rep *models.AggregateReport) string {
	cardWidth := max(m.width-6, 40)

	data := make([]float64, len(rep.Daily))
	for i, d := range rep.Daily {
		data[i] = float64(d.Tokens)
	}

	caption := fmt.Sprintf("Tokens per day (%s - %s)",
		rep.Daily[0].Date, rep.Daily[len(rep.Daily)-1].Date)

	chart := components.RenderLineChart(data, max(cardWidth-14, 20), 8, caption)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Daily Tokens"))
	rows = append(rows, "")
	rows = append(rows, chart)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
