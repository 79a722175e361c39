package core

import (
	"errors"
	"math"
	"strings"
)

// Common expense categories. Free-form categories are accepted too; these
// are the ones the entry form offers.
const (
	CategoryFertilizer = "Fertilizer"
	CategoryTools      = "Tools"
	CategoryWages      = "Wages"
	CategoryTransport  = "Transport"
	CategoryOther      = "Other"
)

type (
	// Estate is a tenant unit whose finances are tracked independently but
	// can be multi-selected for combined reporting.
	Estate struct {
		ID   string
		Name string
	}

	// Worker is a wage labourer attached to exactly one estate.
	Worker struct {
		ID        string
		EstateID  string
		Name      string
		Phone     string
		DailyWage Money
	}

	// Expense is a general or wage-derived cost entry. Immutable once stored;
	// belongs to exactly one estate.
	Expense struct {
		ID          string
		EstateID    string
		Date        Date
		Category    string
		Amount      Money
		Description string
	}

	// SaleItem is one line of a sale bill: a crop weighed and priced per kg.
	SaleItem struct {
		Crop       string
		SubType    string
		WeightKg   float64
		PricePerKg Money
		LineTotal  Money
	}

	// Sale is a crop sale bill. GrandTotal must equal the sum of line totals
	// at creation time; reporting trusts the stored total and only flags
	// mismatches as diagnostics.
	Sale struct {
		ID         string
		EstateID   string
		Date       Date
		BuyerName  string
		Items      []SaleItem
		GrandTotal Money
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyEstate     = errors.New("record must belong to an estate")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNoSaleItems     = errors.New("sale has no items")
	ErrInvalidWeight   = errors.New("invalid weight")
	ErrTotalMismatch   = errors.New("grand total does not match item totals")
	ErrLongDescription = errors.New("description too long (max 200 characters)")
)

func (e Estate) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (w Worker) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(w.EstateID) == "" {
		return ErrEmptyEstate
	}
	return w.DailyWage.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.EstateID) == "" {
		return ErrEmptyEstate
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return ErrLongDescription
	}
	return e.Amount.Validate()
}

// Total computes the line total from weight and rate, rounded to the paisa.
func (i SaleItem) Total() Money {
	return Money{Paise: int64(math.Round(i.WeightKg * float64(i.PricePerKg.Paise)))}
}

func (i SaleItem) Validate() error {
	if strings.TrimSpace(i.Crop) == "" {
		return ErrEmptyCategory
	}
	if i.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	if i.PricePerKg.Paise < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the sale header, every item, and the grand total
// invariant. Sales are validated on entry only; stored records are trusted.
func (s Sale) Validate() error {
	if strings.TrimSpace(s.EstateID) == "" {
		return ErrEmptyEstate
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return ErrNoSaleItems
	}
	var sum Money
	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		sum = sum.Add(item.LineTotal)
	}
	if sum.Paise != s.GrandTotal.Paise {
		return ErrTotalMismatch
	}
	return s.GrandTotal.Validate()
}

// ItemsTotal sums the stored line totals. Used by the reporting integrity
// pass to recheck GrandTotal on already-stored sales.
func (s Sale) ItemsTotal() Money {
	var sum Money
	for _, item := range s.Items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}
