// Package export defines the outbound ledger contract: appending finalized
// expense and sale records to an external bookkeeping ledger.
package export

import (
	"context"

	"farmledger/internal/core"
)

// Appender writes records to the external ledger. Implementations return an
// opaque row reference for logging.
type Appender interface {
	AppendExpense(ctx context.Context, estateName string, e core.Expense) (rowRef string, err error)
	AppendSale(ctx context.Context, estateName string, s core.Sale) (rowRef string, err error)
}
