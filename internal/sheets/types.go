package sheets

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/export"
	"github.com/Veraticus/lootlog/internal/model"
)

// Tab titles.
const (
	PurchasesTab = "Purchases"
	SummaryTab   = "Summary"
)

// SpendRow totals purchases sharing a platform and currency.
type SpendRow struct {
	Platform model.Platform
	Currency model.Currency
	Total    decimal.Decimal
	Count    int
}

// TabData holds everything written to the spreadsheet.
type TabData struct {
	Purchases [][]any
	Summary   [][]any
}

// buildTabData lays out the Purchases tab in export column order, newest
// first, and the Summary tab as spend per platform and currency.
func buildTabData(txns []model.Transaction) TabData {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return strings.Compare(b.PurchaseDate, a.PurchaseDate)
	})

	purchases := make([][]any, 0, len(sorted)+1)
	purchases = append(purchases, toRow(export.Headers))
	for _, txn := range sorted {
		row := toRow(export.Row(txn))
		// Price goes in as a number so the sheet can sum it.
		row[2] = txn.Price.InexactFloat64()
		purchases = append(purchases, row)
	}

	spend := summarizeSpend(txns)
	summary := make([][]any, 0, len(spend)+1)
	summary = append(summary, []any{"Platform", "Currency", "Purchases", "Total"})
	for _, s := range spend {
		summary = append(summary, []any{string(s.Platform), string(s.Currency), s.Count, s.Total.InexactFloat64()})
	}

	return TabData{Purchases: purchases, Summary: summary}
}

// summarizeSpend groups by platform then currency, in enumeration order.
func summarizeSpend(txns []model.Transaction) []SpendRow {
	type key struct {
		platform model.Platform
		currency model.Currency
	}
	totals := make(map[key]*SpendRow)
	for _, txn := range txns {
		k := key{txn.Platform, txn.Currency}
		row, ok := totals[k]
		if !ok {
			row = &SpendRow{Platform: txn.Platform, Currency: txn.Currency, Total: decimal.Zero}
			totals[k] = row
		}
		row.Total = row.Total.Add(txn.Price)
		row.Count++
	}

	rows := make([]SpendRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b SpendRow) int {
		if c := slices.Index(model.Platforms, a.Platform) - slices.Index(model.Platforms, b.Platform); c != 0 {
			return c
		}
		return slices.Index(model.Currencies, a.Currency) - slices.Index(model.Currencies, b.Currency)
	})
	return rows
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
