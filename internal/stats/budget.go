package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/model"
)

// BudgetLevel grades how much of a budget is used.
type BudgetLevel string

// Budget levels.
const (
	BudgetOK      BudgetLevel = "ok"
	BudgetWarning BudgetLevel = "warning"
	BudgetDanger  BudgetLevel = "danger"
)

var (
	warningPercent = decimal.NewFromInt(80)
	fullPercent    = decimal.NewFromInt(100)
)

// BudgetStatus is spending against a monthly budget, in EUR.
type BudgetStatus struct {
	Budget    model.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Percent is the share of the budget used, capped at 100.
	Percent decimal.Decimal
	Level   BudgetLevel
	Over    bool
}

// CheckBudget totals the purchases in the budget's month and compares them
// with the budget amount.
func CheckBudget(budget model.Budget, txns []model.Transaction, conv *Converter) BudgetStatus {
	if conv == nil {
		conv = DefaultConverter()
	}

	spent := decimal.Zero
	for i := range txns {
		date, err := time.Parse(model.DateLayout, txns[i].PurchaseDate)
		if err != nil || date.Year() != budget.Year || date.Month() != budget.Month {
			continue
		}
		spent = spent.Add(conv.ToEUR(txns[i].Price, txns[i].Currency))
	}

	status := BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
		Percent:   decimal.Zero,
		Over:      spent.GreaterThan(budget.Amount),
	}
	if budget.Amount.IsPositive() {
		status.Percent = decimal.Min(spent.Div(budget.Amount).Mul(fullPercent), fullPercent)
	}

	switch {
	case status.Over || status.Percent.GreaterThanOrEqual(fullPercent):
		status.Level = BudgetDanger
	case status.Percent.GreaterThanOrEqual(warningPercent):
		status.Level = BudgetWarning
	default:
		status.Level = BudgetOK
	}
	return status
}
