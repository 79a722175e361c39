// Package services orchestrates record writes and report reads across
// storage, the message broker, and the reporting core.
package services

import (
	"context"

	"farmledger/internal/core"
	"farmledger/internal/storage"
)

// Repository is the record store contract the services depend on. It is
// satisfied by storage.SQLiteRepository and by storage/memory.Store.
type Repository interface {
	CreateEstate(ctx context.Context, e core.Estate) (string, error)
	ListEstates(ctx context.Context) ([]core.Estate, error)

	CreateWorker(ctx context.Context, w core.Worker) (string, error)
	ListWorkers(ctx context.Context, estateID string) ([]core.Worker, error)
	GetWorker(ctx context.Context, id string) (core.Worker, error)

	CreateExpense(ctx context.Context, e core.Expense) (string, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	ListExpenses(ctx context.Context, estateIDs []string, from, to core.Date) ([]core.Expense, error)

	CreateSale(ctx context.Context, s core.Sale) (string, error)
	GetSale(ctx context.Context, id string) (core.Sale, error)
	ListSales(ctx context.Context, estateIDs []string, from, to core.Date) ([]core.Sale, error)

	ListPendingSync(ctx context.Context, limit int) ([]storage.PendingRecord, error)
	MarkSynced(ctx context.Context, kind storage.RecordKind, id string) error
	MarkSyncError(ctx context.Context, kind storage.RecordKind, id string) error

	Close() error
}

// Publisher hands record-sync messages to the broker. Nil publishers are
// tolerated everywhere so the API can run without a broker.
type Publisher interface {
	PublishRecordSync(ctx context.Context, kind, id string) error
	Close() error
}
