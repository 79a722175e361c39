package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"farmledger/internal/core"
)

// ErrInvalidWeek is returned for a wage payment outside the 1-5 week picker.
var ErrInvalidWeek = errors.New("week of month out of range")

// WorkerService manages estate workers and records their wage payments.
type WorkerService struct {
	storage  Repository
	expenses *ExpenseService
}

func NewWorkerService(storage Repository, expenses *ExpenseService) *WorkerService {
	return &WorkerService{storage: storage, expenses: expenses}
}

// CreateWorker validates and stores a new worker, returning its ID.
func (s *WorkerService) CreateWorker(ctx context.Context, w core.Worker) (string, error) {
	if err := w.Validate(); err != nil {
		return "", err
	}

	id, err := s.storage.CreateWorker(ctx, w)
	if err != nil {
		return "", fmt.Errorf("save worker: %w", err)
	}
	return id, nil
}

// ListWorkers returns the workers of one estate ordered by name.
func (s *WorkerService) ListWorkers(ctx context.Context, estateID string) ([]core.Worker, error) {
	if estateID == "" {
		return nil, core.ErrEmptyEstate
	}
	workers, err := s.storage.ListWorkers(ctx, estateID)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

// WagePayment describes one wage payout for a worker. Year and Month follow
// the period selection convention (Month is 0-based); WeekOfMonth picks the
// week the payment is booked under.
type WagePayment struct {
	WorkerID    string
	Year        int
	Month       int
	WeekOfMonth int
	DaysWorked  int
	Deduction   core.Money
}

// PayWage books daysWorked times the worker's daily wage, minus any
// deduction, as a wage expense on the worker's estate. The expense is dated
// on the selected week's closing day; week 5 payouts roll into the next
// month the same way week periods do.
func (s *WorkerService) PayWage(ctx context.Context, p WagePayment) (string, error) {
	if p.DaysWorked <= 0 {
		return "", fmt.Errorf("days worked must be positive: %w", core.ErrInvalidAmount)
	}
	if p.WeekOfMonth < 1 || p.WeekOfMonth > 5 {
		return "", fmt.Errorf("week of month %d: %w", p.WeekOfMonth, ErrInvalidWeek)
	}

	worker, err := s.storage.GetWorker(ctx, p.WorkerID)
	if err != nil {
		return "", fmt.Errorf("load worker: %w", err)
	}

	gross := core.Money{Paise: worker.DailyWage.Paise * int64(p.DaysWorked)}
	net := gross.Sub(p.Deduction)
	if net.Paise <= 0 {
		return "", fmt.Errorf("net wage is not positive: %w", core.ErrInvalidAmount)
	}

	expense := core.Expense{
		EstateID:    worker.EstateID,
		Date:        core.NewDate(p.Year, p.Month+1, p.WeekOfMonth*7),
		Category:    core.CategoryWages,
		Amount:      net,
		Description: fmt.Sprintf("Wage payment: %s, %d days", worker.Name, p.DaysWorked),
	}

	id, err := s.expenses.CreateExpense(ctx, expense)
	if err != nil {
		return "", fmt.Errorf("record wage expense: %w", err)
	}

	slog.InfoContext(ctx, "Wage payment recorded",
		"worker_id", worker.ID,
		"estate_id", worker.EstateID,
		"days_worked", p.DaysWorked,
		"net_paise", net.Paise,
		"expense_id", id)

	return id, nil
}
