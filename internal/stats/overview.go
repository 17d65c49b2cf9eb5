package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/model"
)

// Period holds the totals of one calendar month.
type Period struct {
	Spent     decimal.Decimal
	Year      int
	Month     time.Month
	Purchases int
	Completed int
}

// Trends are whole-percent changes from last month to this month.
type Trends struct {
	Purchases int
	Spent     int
	Completed int
}

// Overview summarizes an owner's purchases. Amounts are in EUR.
type Overview struct {
	TotalSpent   decimal.Decimal
	AveragePrice decimal.Decimal
	ThisMonth    Period
	LastMonth    Period
	Trends       Trends
	Purchases    int
	Completed    int
}

// Compute builds the overview of txns as seen at now.
func Compute(txns []model.Transaction, now time.Time, conv *Converter) Overview {
	if conv == nil {
		conv = DefaultConverter()
	}

	thisYear, thisMonth := now.Year(), now.Month()
	// AddDate on the first of the month never skips a month.
	last := time.Date(thisYear, thisMonth, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)

	o := Overview{
		TotalSpent: decimal.Zero,
		ThisMonth:  Period{Year: thisYear, Month: thisMonth, Spent: decimal.Zero},
		LastMonth:  Period{Year: last.Year(), Month: last.Month(), Spent: decimal.Zero},
	}

	for i := range txns {
		txn := &txns[i]
		eur := conv.ToEUR(txn.Price, txn.Currency)
		completed := txn.Status == model.StatusCompleted

		o.Purchases++
		o.TotalSpent = o.TotalSpent.Add(eur)
		if completed {
			o.Completed++
		}

		date, err := time.Parse(model.DateLayout, txn.PurchaseDate)
		if err != nil {
			// Stored dates are validated; an unreadable one only skips trends.
			continue
		}
		for _, p := range []*Period{&o.ThisMonth, &o.LastMonth} {
			if date.Year() == p.Year && date.Month() == p.Month {
				p.add(eur, completed)
			}
		}
	}

	if o.Purchases > 0 {
		o.AveragePrice = o.TotalSpent.Div(decimal.NewFromInt(int64(o.Purchases)))
	} else {
		o.AveragePrice = decimal.Zero
	}

	o.Trends = Trends{
		Purchases: percentChange(decimal.NewFromInt(int64(o.ThisMonth.Purchases)), decimal.NewFromInt(int64(o.LastMonth.Purchases))),
		Spent:     percentChange(o.ThisMonth.Spent, o.LastMonth.Spent),
		Completed: percentChange(decimal.NewFromInt(int64(o.ThisMonth.Completed)), decimal.NewFromInt(int64(o.LastMonth.Completed))),
	}
	return o
}

func (p *Period) add(eur decimal.Decimal, completed bool) {
	p.Purchases++
	p.Spent = p.Spent.Add(eur)
	if completed {
		p.Completed++
	}
}

// percentChange is the rounded change from prev to curr. Growth from zero
// counts as 100%.
func percentChange(curr, prev decimal.Decimal) int {
	switch {
	case prev.IsZero() && curr.IsZero():
		return 0
	case prev.IsZero():
		return 100
	}
	return int(curr.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
