package report

import "farmledger/internal/core"

// recentCount bounds the flat recent-transactions list.
const recentCount = 6

// Result is the view-ready output of one report request.
type Result struct {
	Totals      Totals
	Series      []SeriesPoint
	Timeline    []TimelineGroup
	Recent      []Transaction
	Diagnostics []Diagnostic
}

// Build merges the two fetched record batches into a single report. It is
// the barrier point of a report request: both batches must already be
// fetched and filtered to the resolved period by the storage layer — no
// re-filtering happens here. Expenses are normalized before sales, which
// fixes within-day timeline order.
//
// Build never fails: unusable records become diagnostics, empty input
// produces zero totals and empty groupings.
func Build(expenses []core.Expense, sales []core.Sale, mode Mode) Result {
	expTxs, expDiags := NormalizeExpenses(expenses)
	saleTxs, saleDiags := NormalizeSales(sales)

	txs := make([]Transaction, 0, len(expTxs)+len(saleTxs))
	txs = append(txs, expTxs...)
	txs = append(txs, saleTxs...)

	return Result{
		Totals:      Aggregate(txs),
		Series:      BuildSeries(txs, mode),
		Timeline:    BuildTimeline(txs),
		Recent:      Recent(txs, recentCount),
		Diagnostics: append(expDiags, saleDiags...),
	}
}
