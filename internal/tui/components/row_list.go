package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

// RowListModel shows the rows of an import preview as a table.
type RowListModel struct {
	theme  themes.Theme
	rows   []importer.ValidatedRow
	table  table.Model
	width  int
	height int
}

// NewRowList creates a row list over rows.
func NewRowList(rows []importer.ValidatedRow, theme themes.Theme) RowListModel {
	// d and b belong to the preview actions, so paging stays on the page keys.
	keys := table.DefaultKeyMap()
	keys.PageUp.SetKeys("pgup")
	keys.PageDown.SetKeys("pgdown")
	keys.HalfPageUp.SetEnabled(false)
	keys.HalfPageDown.SetEnabled(false)

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(keys),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := RowListModel{
		theme:  theme,
		table:  t,
		width:  80,
		height: 14,
	}
	m.updateColumnWidths()
	m.SetRows(rows)
	return m
}

// SetRows replaces the listed rows, keeping the cursor in range.
func (m *RowListModel) SetRows(rows []importer.ValidatedRow) {
	m.rows = rows
	m.table.SetRows(m.buildTableRows())
	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Len returns the number of listed rows.
func (m RowListModel) Len() int {
	return len(m.rows)
}

// Cursor returns the index of the highlighted row.
func (m RowListModel) Cursor() int {
	return m.table.Cursor()
}

// Selected returns the highlighted row.
func (m RowListModel) Selected() (importer.ValidatedRow, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return importer.ValidatedRow{}, false
	}
	return m.rows[cursor], true
}

// Update handles navigation keys.
func (m RowListModel) Update(msg tea.Msg) (RowListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m RowListModel) View() string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No rows left to import.")
	}
	return m.table.View()
}

// Resize updates the component size.
func (m *RowListModel) Resize(width, height int) {
	m.width = width
	m.height = height

	// Header row plus its border take two lines.
	m.table.SetHeight(max(1, height-2))
	m.updateColumnWidths()
}

func (m *RowListModel) buildTableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		txn := row.Data
		rows = append(rows, table.Row{
			badge(row),
			themes.GetTypeIcon(txn.Type) + " " + txn.Title,
			string(txn.Type),
			txn.PriceString() + " " + string(txn.Currency),
			string(txn.Platform),
			txn.PurchaseDate,
			issueCount(row),
		})
	}
	return rows
}

// updateColumnWidths spreads the available width over the columns.
func (m *RowListModel) updateColumnWidths() {
	availableWidth := max(70, m.width-4)

	m.table.SetColumns([]table.Column{
		{Title: "", Width: 2},
		{Title: "Title", Width: max(16, int(float64(availableWidth)*0.32))},
		{Title: "Type", Width: max(8, int(float64(availableWidth)*0.12))},
		{Title: "Price", Width: max(12, int(float64(availableWidth)*0.15))},
		{Title: "Platform", Width: max(8, int(float64(availableWidth)*0.12))},
		{Title: "Date", Width: 10},
		{Title: "Issues", Width: max(8, int(float64(availableWidth)*0.12))},
	})
}

func badge(row importer.ValidatedRow) string {
	switch {
	case !row.Importable():
		return "✗"
	case len(row.Warnings) > 0:
		return "!"
	default:
		return "✓"
	}
}

func issueCount(row importer.ValidatedRow) string {
	switch {
	case len(row.Errors) > 0:
		return fmt.Sprintf("%d error(s)", len(row.Errors))
	case len(row.Warnings) > 0:
		return fmt.Sprintf("%d warning(s)", len(row.Warnings))
	default:
		return ""
	}
}
