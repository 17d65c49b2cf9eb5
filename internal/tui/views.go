package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/importer"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.session.Step() {
	case importer.StepUpload:
		content = m.renderUpload()
	case importer.StepPreview:
		content = m.renderPreview()
	default:
		content = m.renderResult()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

// renderUpload renders the text entry screen.
func (m Model) renderUpload() string {
	title := m.theme.Title.Render(cli.LootIcon + " Import purchases from text")
	subtitle := m.theme.Subtitle.Render(fmt.Sprintf(
		"Purchases without a date default to %s.", m.session.Today()))

	body := m.input.View()
	if m.working {
		body = m.theme.StatusPending.Render(cli.RobotIcon + " Reading purchases from your text...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		body,
		"",
		m.help.View(uploadKeyMap{m.keymap}),
	)
}

// renderPreview renders the preview table and the selected row.
func (m Model) renderPreview() string {
	title := m.theme.Title.Render("Import preview")

	lines := []string{cli.SummarizeRows(m.session.Rows())}
	if unmapped := m.session.Unmapped(); len(unmapped) > 0 {
		names := make([]string, 0, len(unmapped))
		for _, col := range unmapped {
			names = append(names, col.Header)
		}
		lines = append(lines, "Ignored columns: "+strings.Join(names, ", "))
	}
	subtitle := m.theme.Subtitle.Render(strings.Join(lines, "\n"))

	sections := []string{title, subtitle, m.list.View()}
	if detail := m.detail.View(); detail != "" {
		sections = append(sections, detail)
	}
	if m.working {
		sections = append(sections, m.theme.StatusPending.Render("Saving purchases..."))
	}

	helpView := m.help.ShortHelpView(m.keymap.ShortHelp())
	if m.showHelp {
		helpView = m.help.FullHelpView(m.keymap.FullHelp())
	}
	sections = append(sections, "", helpView)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResult renders the commit summary.
func (m Model) renderResult() string {
	title := m.theme.Title.Render("Import finished")

	lines := []string{
		m.theme.StatusSuccess.Render(fmt.Sprintf("%s %d imported", cli.SuccessIcon, m.result.Success)),
	}
	if m.result.Errors > 0 {
		lines = append(lines,
			m.theme.StatusError.Render(fmt.Sprintf("%s %d not imported", cli.ErrorIcon, m.result.Errors)))
	}

	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press any key to exit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.theme.RoundedBox.Render(strings.Join(lines, "\n")),
		"",
		footer,
	)
}

// renderStatusBar renders the notice or last error.
func (m Model) renderStatusBar() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + m.lastError.Error())
	case m.notice != "":
		return m.theme.StatusInfo.Render(cli.InfoIcon + " " + m.notice)
	default:
		return ""
	}
}
