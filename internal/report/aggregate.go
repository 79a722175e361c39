package report

import "farmledger/internal/core"

// Totals is the income/expense/profit summary for a batch.
type Totals struct {
	Income  core.Money
	Expense core.Money
	Profit  core.Money
}

// Aggregate sums a normalized batch. Order independent; an empty batch
// yields all-zero totals.
func Aggregate(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Profit = t.Income.Sub(t.Expense)
	return t
}
