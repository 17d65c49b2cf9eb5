package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

// RowDetailModel shows every field of one previewed row and its issues.
type RowDetailModel struct {
	theme themes.Theme
	row   importer.ValidatedRow
	width int
	index int
	set   bool
}

// NewRowDetail creates an empty row detail.
func NewRowDetail(theme themes.Theme) RowDetailModel {
	return RowDetailModel{theme: theme, width: 80}
}

// SetRow selects the row to show. index is its position in the preview.
func (m RowDetailModel) SetRow(index int, row importer.ValidatedRow) RowDetailModel {
	m.index = index
	m.row = row
	m.set = true
	return m
}

// Clear removes the shown row.
func (m RowDetailModel) Clear() RowDetailModel {
	m.row = importer.ValidatedRow{}
	m.set = false
	return m
}

// Resize updates the component width.
func (m *RowDetailModel) Resize(width int) {
	m.width = width
}

// View renders the row detail.
func (m RowDetailModel) View() string {
	if !m.set {
		return ""
	}

	labelStyle := m.theme.Bold.
		Width(10).
		Align(lipgloss.Right)
	valueStyle := m.theme.Normal

	txn := m.row.Data
	fields := []struct {
		label string
		value string
	}{
		{"Store", txn.Store},
		{"Genre", string(txn.Genre)},
		{"Status", string(txn.Status)},
		{"Parent", txn.ParentGameName},
		{"Notes", txn.Notes},
	}

	lines := []string{m.theme.Bold.Render(fmt.Sprintf("Row %d: %s", m.index+1, txn.Title))}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(f.label+": "),
			valueStyle.Render(f.value),
		))
	}

	for _, issue := range m.row.Errors {
		lines = append(lines, m.theme.StatusError.Render("✗ "+cli.DescribeIssue(issue)))
	}
	for _, issue := range m.row.Warnings {
		lines = append(lines, m.theme.StatusWarning.Render("! "+cli.DescribeIssue(issue)))
	}

	if len(m.row.Errors)+len(m.row.Warnings) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No issues."))
	}

	return m.theme.RoundedBox.
		Width(max(20, m.width-2)).
		Render(strings.Join(lines, "\n"))
}
