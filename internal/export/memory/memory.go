// Package memory holds an in-process ledger appender used by tests and by
// deployments without Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"farmledger/internal/core"
)

type Ledger struct {
	mu       sync.Mutex
	expenses []core.Expense
	sales    []core.Sale
}

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) AppendExpense(_ context.Context, _ string, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = append(l.expenses, e)
	return fmt.Sprintf("mem:expense:%d", len(l.expenses)), nil
}

func (l *Ledger) AppendSale(_ context.Context, _ string, s core.Sale) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sales = append(l.sales, s)
	return fmt.Sprintf("mem:sale:%d", len(l.sales)), nil
}

// Expenses returns a copy of every appended expense, in append order.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

// Sales returns a copy of every appended sale, in append order.
func (l *Ledger) Sales() []core.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Sale(nil), l.sales...)
}
