package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadWorkbook(t *testing.T) {
	r := buildWorkbook(t, map[string][][]any{
		"Achats": {
			{"Jeu", "Prix", "Devise"},
			{"Hades", "24.99", "USD"},
			{"", "", ""},
			{"Celeste", 19.5, "EUR"},
		},
	})

	rows, err := ReadWorkbook(r, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RawRow{"Jeu", "Prix", "Devise"}, rows[0])
	assert.Equal(t, RawRow{"Hades", "24.99", "USD"}, rows[1])
	assert.Equal(t, "Celeste", rows[2][0])
	assert.Equal(t, "19.5", rows[2][1])
}

func TestReadWorkbookNamedSheet(t *testing.T) {
	r := buildWorkbook(t, map[string][][]any{
		"Games": {{"Title"}, {"Tunic"}},
	})

	rows, err := ReadWorkbook(r, "Games")
	require.NoError(t, err)
	assert.Equal(t, []RawRow{{"Title"}, {"Tunic"}}, rows)
}

func TestReadWorkbookErrors(t *testing.T) {
	t.Run("missing sheet", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]any{"Games": {{"Title"}}})
		_, err := ReadWorkbook(r, "Nope")
		require.ErrorIs(t, err, ErrSheetNotFound)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := ReadWorkbook(strings.NewReader("Title,Price\n"), "")
		require.Error(t, err)
	})
}
