package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ReadWorkbook reads the rows of one worksheet of an XLSX workbook. An empty
// sheet name selects the first sheet. Cell values are the formatted text the
// spreadsheet displays, so the rows feed MapColumns exactly like delimited
// text. Rows without any non-blank cell are skipped.
func ReadWorkbook(r io.Reader, sheet string) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rows := make([]RawRow, 0, len(cells))
	for _, cellRow := range cells {
		if isEmptySheetRow(cellRow) {
			continue
		}
		rows = append(rows, RawRow(cellRow))
	}
	return rows, nil
}

func isEmptySheetRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

