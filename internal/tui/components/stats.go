package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/stats"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

// StatsPanelModel displays spending totals, monthly trends and budget usage.
type StatsPanelModel struct {
	theme       themes.Theme
	overview    *stats.Overview
	budget      *stats.BudgetStatus
	progressBar progress.Model
	width       int
}

// NewStatsPanelModel creates an empty stats panel.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	prog := progress.New(progress.WithDefaultGradient())
	prog.ShowPercentage = false
	prog.Width = 40

	return StatsPanelModel{
		theme:       theme,
		progressBar: prog,
		width:       80,
	}
}

// SetOverview sets the totals to show.
func (m StatsPanelModel) SetOverview(o stats.Overview) StatsPanelModel {
	m.overview = &o
	return m
}

// SetBudget sets the budget usage to show.
func (m StatsPanelModel) SetBudget(b stats.BudgetStatus) StatsPanelModel {
	m.budget = &b
	return m
}

// Resize updates the component width.
func (m *StatsPanelModel) Resize(width int) {
	m.width = width
	m.progressBar.Width = max(10, min(width-4, 40))
}

// View renders the stats panel.
func (m StatsPanelModel) View() string {
	var sections []string
	if m.overview != nil {
		sections = append(sections, m.renderTotals(), m.renderTrends())
	}
	if m.budget != nil {
		sections = append(sections, m.renderBudget())
	}
	if len(sections) == 0 {
		return m.theme.Subtitle.Render("No purchases yet.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTotals renders the all-time totals.
func (m StatsPanelModel) renderTotals() string {
	o := m.overview
	title := m.theme.Subtitle.Render("Totals")

	lines := []string{
		fmt.Sprintf("Purchases:  %d", o.Purchases),
		fmt.Sprintf("Completed:  %d", o.Completed),
		fmt.Sprintf("Spent:      %s", formatEUR(o.TotalSpent)),
		fmt.Sprintf("Average:    %s", formatEUR(o.AveragePrice)),
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

// renderTrends renders this month against last month.
func (m StatsPanelModel) renderTrends() string {
	o := m.overview
	title := m.theme.Subtitle.Render(fmt.Sprintf("%s vs %s",
		monthLabel(o.ThisMonth.Year, o.ThisMonth.Month),
		monthLabel(o.LastMonth.Year, o.LastMonth.Month)))

	items := []struct {
		label string
		value string
		trend int
	}{
		{label: "Purchases", value: fmt.Sprintf("%d", o.ThisMonth.Purchases), trend: o.Trends.Purchases},
		{label: "Spent", value: formatEUR(o.ThisMonth.Spent), trend: o.Trends.Spent},
		{label: "Completed", value: fmt.Sprintf("%d", o.ThisMonth.Completed), trend: o.Trends.Completed},
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%-11s %-12s %s",
			item.label+":",
			item.value,
			m.renderTrend(item.trend),
		))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

// renderTrend colors a percent change; growth uses the info color.
func (m StatsPanelModel) renderTrend(pct int) string {
	switch {
	case pct > 0:
		return m.theme.StatusInfo.Render(fmt.Sprintf("▲ +%d%%", pct))
	case pct < 0:
		return m.theme.StatusSuccess.Render(fmt.Sprintf("▼ %d%%", pct))
	default:
		return m.theme.StatusPending.Render("= 0%")
	}
}

// renderBudget renders budget usage with a bar.
func (m StatsPanelModel) renderBudget() string {
	b := m.budget
	title := m.theme.Subtitle.Render("Budget for " + monthLabel(b.Budget.Year, b.Budget.Month))

	percent, _ := b.Percent.Div(decimal.NewFromInt(100)).Float64()
	bar := m.progressBar.ViewAs(percent)

	amounts := fmt.Sprintf("%s / %s", formatEUR(b.Spent), formatEUR(b.Budget.Amount))
	used := fmt.Sprintf("%s%% used", b.Percent.Round(0).String())

	var remaining string
	switch {
	case b.Over:
		remaining = m.theme.StatusError.Render("Over budget by " + formatEUR(b.Remaining.Abs()))
	case b.Remaining.IsPositive():
		remaining = m.theme.Normal.Render(formatEUR(b.Remaining) + " left")
	default:
		remaining = m.theme.StatusWarning.Render("Budget used up")
	}

	levelStyle := m.theme.StatusSuccess
	switch b.Level {
	case stats.BudgetWarning:
		levelStyle = m.theme.StatusWarning
	case stats.BudgetDanger:
		levelStyle = m.theme.StatusError
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		levelStyle.Render(amounts),
		bar,
		m.theme.Normal.Render(used),
		remaining,
	)
}

func formatEUR(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}
