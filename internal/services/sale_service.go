package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmledger/internal/core"
	"farmledger/internal/storage"
)

// SaleService orchestrates sale-bill writes across storage and the broker.
type SaleService struct {
	storage   Repository
	publisher Publisher
}

func NewSaleService(storage Repository, publisher Publisher) *SaleService {
	return &SaleService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateSale fills in missing line totals, validates the bill, saves it and
// publishes a ledger sync message. A stored grand total that disagrees with
// the line items is rejected here; historical rows that disagree still
// aggregate by their stored total and are surfaced as report diagnostics.
func (s *SaleService) CreateSale(ctx context.Context, sale core.Sale) (string, error) {
	for i := range sale.Items {
		if sale.Items[i].LineTotal.Paise == 0 {
			sale.Items[i].LineTotal = sale.Items[i].Total()
		}
	}
	if sale.GrandTotal.Paise == 0 {
		sale.GrandTotal = sale.ItemsTotal()
	}

	if err := sale.Validate(); err != nil {
		return "", err
	}

	id, err := s.storage.CreateSale(ctx, sale)
	if err != nil {
		return "", fmt.Errorf("save sale: %w", err)
	}

	if err := s.publishSync(ctx, string(storage.KindSale), id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sale sync message",
			"id", id, "error", err)
	}

	return id, nil
}

// GetSale fetches one sale with its items.
func (s *SaleService) GetSale(ctx context.Context, id string) (core.Sale, error) {
	return s.storage.GetSale(ctx, id)
}

func (s *SaleService) publishSync(ctx context.Context, kind, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Broker not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishRecordSync(ctx, kind, id)
}
