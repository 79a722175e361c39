package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmledger/internal/core"
	"farmledger/internal/storage"
)

// ExpenseService orchestrates expense writes across storage and the broker.
type ExpenseService struct {
	storage   Repository
	publisher Publisher
}

func NewExpenseService(storage Repository, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateExpense saves an expense locally and publishes a ledger sync
// message. Publish failures are logged, not returned: the write succeeded
// and the worker's pending-sync sweep will pick the record up later.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	if err := s.publishSync(ctx, string(storage.KindExpense), id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense sync message",
			"id", id, "error", err)
	}

	return id, nil
}

// GetExpense fetches one expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.storage.GetExpense(ctx, id)
}

func (s *ExpenseService) publishSync(ctx context.Context, kind, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Broker not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishRecordSync(ctx, kind, id)
}

// Close closes both storage and broker connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("broker: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
