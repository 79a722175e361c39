package report

import (
	"fmt"

	"farmledger/internal/core"
)

// Kind tags a normalized transaction as money in or money out.
type Kind string

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

// SaleLabel is the fixed category label for income transactions. The buyer
// name is carried separately for display and never used in aggregation.
const SaleLabel = "Sale"

// Transaction is the common shape expenses and sales are mapped onto so they
// can be merged, summed and sorted uniformly. Derived on every report
// request, never persisted.
type Transaction struct {
	Date        core.Date
	Kind        Kind
	Amount      core.Money
	Label       string
	EstateID    string
	Description string
	BuyerName   string
}

// Diagnostic reports a record that could not be normalized or that failed an
// integrity check. Diagnostics never abort a report; the rest of the batch
// still aggregates.
type Diagnostic struct {
	Severity string `json:"severity"` // "invalid" or "integrity"
	RecordID string `json:"recordId"`
	Message  string `json:"message"`
}

// NormalizeExpenses maps each expense onto one Transaction. An expense with
// a zero date or non-positive amount is skipped with an invalid-record
// diagnostic.
func NormalizeExpenses(expenses []core.Expense) ([]Transaction, []Diagnostic) {
	txs := make([]Transaction, 0, len(expenses))
	var diags []Diagnostic
	for _, e := range expenses {
		if e.Date.IsZero() {
			diags = append(diags, Diagnostic{
				Severity: "invalid",
				RecordID: e.ID,
				Message:  "expense has no usable date",
			})
			continue
		}
		if e.Amount.Paise <= 0 {
			diags = append(diags, Diagnostic{
				Severity: "invalid",
				RecordID: e.ID,
				Message:  fmt.Sprintf("expense amount %d paise is not positive", e.Amount.Paise),
			})
			continue
		}
		txs = append(txs, Transaction{
			Date:        e.Date,
			Kind:        Expense,
			Amount:      e.Amount,
			Label:       e.Category,
			EstateID:    e.EstateID,
			Description: e.Description,
		})
	}
	return txs, diags
}

// NormalizeSales maps each sale onto one Income transaction carrying the
// sale's stored grand total. The grand total is also rechecked against the
// item line totals; a mismatch is aggregated as stored but surfaced as an
// integrity diagnostic rather than silently trusted.
func NormalizeSales(sales []core.Sale) ([]Transaction, []Diagnostic) {
	txs := make([]Transaction, 0, len(sales))
	var diags []Diagnostic
	for _, s := range sales {
		if s.Date.IsZero() {
			diags = append(diags, Diagnostic{
				Severity: "invalid",
				RecordID: s.ID,
				Message:  "sale has no usable date",
			})
			continue
		}
		if s.GrandTotal.Paise <= 0 {
			diags = append(diags, Diagnostic{
				Severity: "invalid",
				RecordID: s.ID,
				Message:  fmt.Sprintf("sale grand total %d paise is not positive", s.GrandTotal.Paise),
			})
			continue
		}
		if items := s.ItemsTotal(); items.Paise != s.GrandTotal.Paise {
			diags = append(diags, Diagnostic{
				Severity: "integrity",
				RecordID: s.ID,
				Message: fmt.Sprintf("stored grand total %d paise disagrees with item sum %d paise",
					s.GrandTotal.Paise, items.Paise),
			})
		}
		txs = append(txs, Transaction{
			Date:      s.Date,
			Kind:      Income,
			Amount:    s.GrandTotal,
			Label:     SaleLabel,
			EstateID:  s.EstateID,
			BuyerName: s.BuyerName,
		})
	}
	return txs, diags
}
