// Package export writes stored purchases back out in formats the importer
// reads again.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Veraticus/lootlog/internal/model"
)

const bom = "\uFEFF"

// Headers is the column order of every export. Each header is one the
// import column mapper recognizes.
var Headers = []string{
	"Name", "Type", "Price", "Currency", "Platform", "Genre",
	"Store", "Status", "Date", "Parent Game", "Notes",
}

// Row renders one transaction in Headers order.
func Row(txn model.Transaction) []string {
	return []string{
		txn.Title,
		string(txn.Type),
		txn.PriceString(),
		string(txn.Currency),
		string(txn.Platform),
		string(txn.Genre),
		txn.Store,
		string(txn.Status),
		txn.PurchaseDate,
		txn.ParentGameName,
		txn.Notes,
	}
}

// WriteCSV writes a UTF-8 BOM, the header row and one row per transaction.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range txns {
		if err := cw.Write(Row(txns[i])); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
