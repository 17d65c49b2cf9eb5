package components

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/model"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

func testRow(title string, warnings, errs int) importer.ValidatedRow {
	txn := model.DefaultTransaction("2024-03-15")
	txn.Title = title
	txn.Price = decimal.RequireFromString("9.99")

	row := importer.ValidatedRow{Data: txn}
	for range warnings {
		row.Warnings = append(row.Warnings, importer.Issue{Field: importer.FieldPlatform, Reason: importer.ReasonUnknownPlatform, Value: "Amiga"})
	}
	for range errs {
		row.Errors = append(row.Errors, importer.Issue{Field: importer.FieldTitle, Reason: importer.ReasonTitleRequired})
	}
	return row
}

func TestRowListSetRowsClampsCursor(t *testing.T) {
	list := NewRowList([]importer.ValidatedRow{
		testRow("Hades", 0, 0),
		testRow("Celeste", 0, 0),
		testRow("Hollow Knight", 0, 0),
	}, themes.Default)

	list.table.SetCursor(2)
	list.SetRows([]importer.ValidatedRow{testRow("Hades", 0, 0)})

	assert.Equal(t, 0, list.Cursor())
	row, ok := list.Selected()
	require.True(t, ok)
	assert.Equal(t, "Hades", row.Data.Title)
}

func TestRowListEmpty(t *testing.T) {
	list := NewRowList(nil, themes.Default)

	_, ok := list.Selected()
	assert.False(t, ok)
	assert.Contains(t, list.View(), "No rows left")
}

func TestRowBadgesAndIssues(t *testing.T) {
	tests := []struct {
		name       string
		wantBadge  string
		wantIssues string
		row        importer.ValidatedRow
	}{
		{name: "clean", row: testRow("Hades", 0, 0), wantBadge: "✓", wantIssues: ""},
		{name: "warned", row: testRow("Hades", 2, 0), wantBadge: "!", wantIssues: "2 warning(s)"},
		{name: "blocked", row: testRow("", 1, 1), wantBadge: "✗", wantIssues: "1 error(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBadge, badge(tt.row))
			assert.Equal(t, tt.wantIssues, issueCount(tt.row))
		})
	}
}

func TestRowDetailShowsIssues(t *testing.T) {
	detail := NewRowDetail(themes.Default)
	assert.Empty(t, detail.View())

	detail = detail.SetRow(1, testRow("Hades", 1, 0))
	view := detail.View()
	assert.Contains(t, view, "Row 2: Hades")
	assert.Contains(t, view, `"Amiga"`)

	assert.Empty(t, detail.Clear().View())
}
