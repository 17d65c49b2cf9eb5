package components

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lootlog/internal/model"
	"github.com/Veraticus/lootlog/internal/stats"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

func statsPurchases() []model.Transaction {
	var txns []model.Transaction
	for _, p := range []struct{ title, date, price string }{
		{"Hades", "2024-03-02", "40"},
		{"Celeste", "2024-03-10", "20"},
		{"Tunic", "2024-02-20", "30"},
	} {
		txn := model.DefaultTransaction(p.date)
		txn.Title = p.title
		txn.Price = decimal.RequireFromString(p.price)
		txns = append(txns, txn)
	}
	return txns
}

func TestStatsPanelEmpty(t *testing.T) {
	panel := NewStatsPanelModel(themes.Default)
	assert.Contains(t, panel.View(), "No purchases yet.")
}

func TestStatsPanelOverview(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	panel := NewStatsPanelModel(themes.Default).
		SetOverview(stats.Compute(statsPurchases(), now, nil))

	view := panel.View()
	assert.Contains(t, view, "Purchases:  3")
	assert.Contains(t, view, "90.00 €")
	assert.Contains(t, view, "March 2024 vs February 2024")
	assert.Contains(t, view, "+100%")
	assert.NotContains(t, view, "Budget for")
}

func TestStatsPanelBudget(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "remaining", amount: "100", expected: "40.00 € left"},
		{name: "over", amount: "50", expected: "Over budget by 10.00 €"},
		{name: "exactly used", amount: "60", expected: "Budget used up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := model.Budget{Year: 2024, Month: time.March, Amount: decimal.RequireFromString(tt.amount)}
			panel := NewStatsPanelModel(themes.Default).
				SetBudget(stats.CheckBudget(budget, statsPurchases(), nil))

			view := panel.View()
			assert.Contains(t, view, "Budget for March 2024")
			assert.Contains(t, view, tt.expected)
		})
	}
}
