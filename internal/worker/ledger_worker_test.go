package worker

import (
	"context"
	"errors"
	"testing"

	"farmledger/internal/amqp"
	"farmledger/internal/core"
	exportmem "farmledger/internal/export/memory"
	"farmledger/internal/storage/memory"
)

type failingLedger struct{}

func (failingLedger) AppendExpense(context.Context, string, core.Expense) (string, error) {
	return "", errors.New("ledger unavailable")
}

func (failingLedger) AppendSale(context.Context, string, core.Sale) (string, error) {
	return "", errors.New("ledger unavailable")
}

func seed(t *testing.T) (*memory.Store, string, string, string) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	estateID, err := store.CreateEstate(ctx, core.Estate{Name: "North Block"})
	if err != nil {
		t.Fatalf("create estate: %v", err)
	}
	expenseID, err := store.CreateExpense(ctx, core.Expense{
		EstateID: estateID,
		Date:     core.NewDate(2024, 3, 5),
		Category: core.CategoryFertilizer,
		Amount:   core.Money{Paise: 120000},
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	saleID, err := store.CreateSale(ctx, core.Sale{
		EstateID:   estateID,
		Date:       core.NewDate(2024, 3, 5),
		BuyerName:  "Trader",
		Items:      []core.SaleItem{{Crop: "Arecanut", WeightKg: 1, PricePerKg: core.Money{Paise: 50000}, LineTotal: core.Money{Paise: 50000}}},
		GrandTotal: core.Money{Paise: 50000},
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return store, estateID, expenseID, saleID
}

func TestLedgerWorker_HandleSyncMessage(t *testing.T) {
	store, _, expenseID, saleID := seed(t)
	ledger := exportmem.New()
	w := NewLedgerWorker(store, ledger, 10)
	ctx := context.Background()

	if err := w.HandleSyncMessage(ctx, amqp.NewRecordSyncMessage("expense", expenseID)); err != nil {
		t.Fatalf("HandleSyncMessage(expense): %v", err)
	}
	if err := w.HandleSyncMessage(ctx, amqp.NewRecordSyncMessage("sale", saleID)); err != nil {
		t.Fatalf("HandleSyncMessage(sale): %v", err)
	}

	if got := len(ledger.Expenses()); got != 1 {
		t.Errorf("ledger expenses = %d, want 1", got)
	}
	if got := len(ledger.Sales()); got != 1 {
		t.Errorf("ledger sales = %d, want 1", got)
	}

	pending, err := store.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after export = %d, want 0", len(pending))
	}
}

func TestLedgerWorker_HandleSyncMessage_UnknownRecord(t *testing.T) {
	store, _, _, _ := seed(t)
	w := NewLedgerWorker(store, exportmem.New(), 10)

	err := w.HandleSyncMessage(context.Background(), amqp.NewRecordSyncMessage("expense", "no-such-id"))
	if err == nil {
		t.Error("HandleSyncMessage should fail for a missing record")
	}
}

func TestLedgerWorker_HandleSyncMessage_UnknownKind(t *testing.T) {
	store, _, _, _ := seed(t)
	w := NewLedgerWorker(store, exportmem.New(), 10)

	// Unknown kinds are dropped, not requeued.
	if err := w.HandleSyncMessage(context.Background(), amqp.NewRecordSyncMessage("harvest", "x")); err != nil {
		t.Errorf("HandleSyncMessage(unknown kind) = %v, want nil", err)
	}
}

func TestLedgerWorker_StartupSyncCheck(t *testing.T) {
	store, _, _, _ := seed(t)
	ledger := exportmem.New()
	w := NewLedgerWorker(store, ledger, 10)
	ctx := context.Background()

	// Simulates lost broker messages: records exist but were never exported.
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}

	if got := len(ledger.Expenses()) + len(ledger.Sales()); got != 2 {
		t.Errorf("exported records = %d, want 2", got)
	}

	pending, err := store.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after startup check = %d, want 0", len(pending))
	}
}

func TestLedgerWorker_ProcessPending_LedgerDown(t *testing.T) {
	store, _, _, _ := seed(t)
	w := NewLedgerWorker(store, failingLedger{}, 10)
	ctx := context.Background()

	// The sweep itself succeeds; failed records stay pending for retry.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	pending, err := store.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending after failed sweep = %d, want 2", len(pending))
	}
}
