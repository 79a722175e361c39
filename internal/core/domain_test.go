package core

import (
	"errors"
	"testing"
)

func validSale() Sale {
	return Sale{
		EstateID:  "est-1",
		Date:      NewDate(2024, 3, 5),
		BuyerName: "Kottayam Traders",
		Items: []SaleItem{
			{Crop: "Rubber", SubType: "Sheet", WeightKg: 10, PricePerKg: Money{Paise: 18000}, LineTotal: Money{Paise: 180000}},
			{Crop: "Rubber", SubType: "Scrap", WeightKg: 4, PricePerKg: Money{Paise: 9000}, LineTotal: Money{Paise: 36000}},
		},
		GrandTotal: Money{Paise: 216000},
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := Expense{
		EstateID: "est-1",
		Date:     NewDate(2024, 3, 5),
		Category: CategoryFertilizer,
		Amount:   Money{Paise: 50000},
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"valid", func(*Expense) {}, nil},
		{"missing estate", func(e *Expense) { e.EstateID = " " }, ErrEmptyEstate},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSale_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Sale)
		wantErr error
	}{
		{"valid", func(*Sale) {}, nil},
		{"missing estate", func(s *Sale) { s.EstateID = "" }, ErrEmptyEstate},
		{"no items", func(s *Sale) { s.Items = nil }, ErrNoSaleItems},
		{"total mismatch", func(s *Sale) { s.GrandTotal = Money{Paise: 1} }, ErrTotalMismatch},
		{"zero weight item", func(s *Sale) { s.Items[0].WeightKg = 0 }, ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSale()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaleItem_Total(t *testing.T) {
	item := SaleItem{Crop: "Pepper", WeightKg: 2.5, PricePerKg: Money{Paise: 52000}}
	if got := item.Total(); got.Paise != 130000 {
		t.Errorf("Total() = %d, want 130000", got.Paise)
	}
}

func TestWorker_Validate(t *testing.T) {
	w := Worker{EstateID: "est-1", Name: "Ravi", DailyWage: Money{Paise: 60000}}
	if err := w.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	w.DailyWage = Money{}
	if !errors.Is(w.Validate(), ErrInvalidAmount) {
		t.Error("zero wage must be rejected")
	}
}
