// Package worker runs the ledger export loop: consuming record-sync
// messages and appending the named records to the external ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"farmledger/internal/amqp"
	"farmledger/internal/export"
	"farmledger/internal/services"
	"farmledger/internal/storage"
)

// LedgerWorker exports expenses and sales from storage to the ledger.
// Broker messages are the primary trigger; the pending-sync sweep is the
// backup path for records whose message was lost.
type LedgerWorker struct {
	storage   services.Repository
	ledger    export.Appender
	batchSize int
}

func NewLedgerWorker(storage services.Repository, ledger export.Appender, batchSize int) *LedgerWorker {
	return &LedgerWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single record-sync message from the broker.
// A returned error nacks and requeues the message.
func (w *LedgerWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"kind", msg.Kind,
		"id", msg.ID)

	return w.exportRecord(ctx, storage.RecordKind(msg.Kind), msg.ID)
}

// ProcessPending exports a batch of records that never made it to the
// ledger. Called on a timer as a backup for lost broker messages.
func (w *LedgerWorker) ProcessPending(ctx context.Context) error {
	return w.sweepPending(ctx, w.batchSize)
}

// StartupSyncCheck clears the pending backlog once at worker startup,
// using a larger batch to recover from downtime.
func (w *LedgerWorker) StartupSyncCheck(ctx context.Context) error {
	return w.sweepPending(ctx, w.batchSize*5)
}

func (w *LedgerWorker) sweepPending(ctx context.Context, batch int) error {
	pending, err := w.storage.ListPendingSync(ctx, batch)
	if err != nil {
		return fmt.Errorf("list pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending ledger records", "count", len(pending))

	exported := 0
	for _, p := range pending {
		if err := w.exportRecord(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending record",
				"kind", p.Kind, "id", p.ID, "error", err)
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Pending sweep completed",
		"total", len(pending),
		"exported", exported,
		"errors", len(pending)-exported)

	return nil
}

func (w *LedgerWorker) exportRecord(ctx context.Context, kind storage.RecordKind, id string) error {
	var (
		ref string
		err error
	)

	switch kind {
	case storage.KindExpense:
		e, getErr := w.storage.GetExpense(ctx, id)
		if getErr != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("get expense from storage: %w", getErr)
		}
		ref, err = w.ledger.AppendExpense(ctx, w.estateName(ctx, e.EstateID), e)
	case storage.KindSale:
		s, getErr := w.storage.GetSale(ctx, id)
		if getErr != nil {
			w.markError(ctx, kind, id)
			return fmt.Errorf("get sale from storage: %w", getErr)
		}
		ref, err = w.ledger.AppendSale(ctx, w.estateName(ctx, s.EstateID), s)
	default:
		// Drop unknown kinds; requeueing would loop forever.
		slog.WarnContext(ctx, "Skipping record of unknown kind", "kind", kind, "id", id)
		return nil
	}

	if err != nil {
		w.markError(ctx, kind, id)
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, kind, id); err != nil {
		// The append worked; flag trouble but do not requeue.
		slog.ErrorContext(ctx, "Failed to mark record as synced",
			"kind", kind, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Record exported to ledger",
		"kind", kind,
		"id", id,
		"ledger_ref", ref)

	return nil
}

func (w *LedgerWorker) markError(ctx context.Context, kind storage.RecordKind, id string) {
	if err := w.storage.MarkSyncError(ctx, kind, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error",
			"kind", kind, "id", id, "error", err)
	}
}

func (w *LedgerWorker) estateName(ctx context.Context, estateID string) string {
	estates, err := w.storage.ListEstates(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to resolve estate name", "estate_id", estateID, "error", err)
		return estateID
	}
	for _, e := range estates {
		if e.ID == estateID {
			return e.Name
		}
	}
	return estateID
}
