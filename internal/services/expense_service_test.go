package services

import (
	"context"
	"errors"
	"testing"

	"farmledger/internal/core"
	"farmledger/internal/storage/memory"
)

// fakePublisher records published sync messages.
type fakePublisher struct {
	published [][2]string
	err       error
}

func (p *fakePublisher) PublishRecordSync(_ context.Context, kind, id string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, [2]string{kind, id})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestExpenseService_CreateExpense(t *testing.T) {
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	estateID := seedEstate(t, store, "Main")

	t.Run("saves and publishes", func(t *testing.T) {
		id, err := svc.CreateExpense(context.Background(), core.Expense{
			EstateID: estateID,
			Date:     core.NewDate(2024, 3, 5),
			Category: core.CategoryTools,
			Amount:   core.Money{Paise: 45000},
		})
		if err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
		if id == "" {
			t.Fatal("CreateExpense returned empty ID")
		}

		got, err := store.GetExpense(context.Background(), id)
		if err != nil {
			t.Fatalf("GetExpense: %v", err)
		}
		if got.Amount.Paise != 45000 {
			t.Errorf("stored amount = %d, want 45000", got.Amount.Paise)
		}

		if len(pub.published) != 1 || pub.published[0] != [2]string{"expense", id} {
			t.Errorf("published = %v, want one expense message for %s", pub.published, id)
		}
	})

	t.Run("rejects invalid expense before storing", func(t *testing.T) {
		_, err := svc.CreateExpense(context.Background(), core.Expense{
			EstateID: estateID,
			Date:     core.NewDate(2024, 3, 5),
			Amount:   core.Money{Paise: 100},
		})
		if !errors.Is(err, core.ErrEmptyCategory) {
			t.Errorf("err = %v, want ErrEmptyCategory", err)
		}
	})

	t.Run("publish failure does not fail the write", func(t *testing.T) {
		failing := NewExpenseService(store, &fakePublisher{err: errors.New("broker down")})
		id, err := failing.CreateExpense(context.Background(), core.Expense{
			EstateID: estateID,
			Date:     core.NewDate(2024, 3, 6),
			Category: core.CategoryTransport,
			Amount:   core.Money{Paise: 1000},
		})
		if err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
		if id == "" {
			t.Fatal("CreateExpense returned empty ID")
		}
	})

	t.Run("nil publisher is tolerated", func(t *testing.T) {
		quiet := NewExpenseService(store, nil)
		if _, err := quiet.CreateExpense(context.Background(), core.Expense{
			EstateID: estateID,
			Date:     core.NewDate(2024, 3, 7),
			Category: core.CategoryOther,
			Amount:   core.Money{Paise: 500},
		}); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	})
}

func TestSaleService_CreateSale(t *testing.T) {
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewSaleService(store, pub)

	estateID := seedEstate(t, store, "Main")

	t.Run("derives totals and publishes", func(t *testing.T) {
		id, err := svc.CreateSale(context.Background(), core.Sale{
			EstateID:  estateID,
			Date:      core.NewDate(2024, 3, 8),
			BuyerName: "Mandi Trader",
			Items: []core.SaleItem{
				{Crop: "Arecanut", SubType: "Rashi", WeightKg: 52.5, PricePerKg: core.Money{Paise: 40000}},
				{Crop: "Pepper", WeightKg: 10, PricePerKg: core.Money{Paise: 52000}},
			},
		})
		if err != nil {
			t.Fatalf("CreateSale: %v", err)
		}

		got, err := store.GetSale(context.Background(), id)
		if err != nil {
			t.Fatalf("GetSale: %v", err)
		}
		// 52.5*400.00 + 10*520.00 = 21000.00 + 5200.00
		if got.GrandTotal.Paise != 2620000 {
			t.Errorf("grand total = %d, want 2620000", got.GrandTotal.Paise)
		}
		if got.Items[0].LineTotal.Paise != 2100000 {
			t.Errorf("line total = %d, want 2100000", got.Items[0].LineTotal.Paise)
		}

		if len(pub.published) != 1 || pub.published[0] != [2]string{"sale", id} {
			t.Errorf("published = %v, want one sale message for %s", pub.published, id)
		}
	})

	t.Run("rejects mismatched grand total", func(t *testing.T) {
		_, err := svc.CreateSale(context.Background(), core.Sale{
			EstateID:   estateID,
			Date:       core.NewDate(2024, 3, 9),
			Items:      []core.SaleItem{{Crop: "Arecanut", WeightKg: 1, PricePerKg: core.Money{Paise: 100}, LineTotal: core.Money{Paise: 100}}},
			GrandTotal: core.Money{Paise: 999},
		})
		if !errors.Is(err, core.ErrTotalMismatch) {
			t.Errorf("err = %v, want ErrTotalMismatch", err)
		}
	})

	t.Run("rejects empty bill", func(t *testing.T) {
		_, err := svc.CreateSale(context.Background(), core.Sale{
			EstateID: estateID,
			Date:     core.NewDate(2024, 3, 9),
		})
		if !errors.Is(err, core.ErrNoSaleItems) {
			t.Errorf("err = %v, want ErrNoSaleItems", err)
		}
	})
}
