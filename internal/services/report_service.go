package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"farmledger/internal/cache"
	"farmledger/internal/core"
	"farmledger/internal/report"
)

const (
	estateNameCacheSize = 256
	estateNameCacheTTL  = 5 * time.Minute
)

// Report is a resolved period plus everything the reporting core derived
// from the records inside it. EstateNames maps the estate IDs appearing in
// the timeline to display names so merged views can tag each entry.
type Report struct {
	Period report.Period
	report.Result
	EstateNames map[string]string
}

// ReportService resolves a period selection, fetches the records inside it
// and hands them to the reporting core. Expense and sale fetches run in
// parallel; either failure aborts the report.
type ReportService struct {
	storage Repository
	names   *cache.LRUCache[string]
}

func NewReportService(storage Repository) *ReportService {
	return &ReportService{
		storage: storage,
		names:   cache.NewLRUCache[string](estateNameCacheSize, estateNameCacheTTL),
	}
}

// NameCache exposes the estate-name cache for cleanup registration.
func (s *ReportService) NameCache() cache.Cleaner {
	return s.names
}

// Build produces the consolidated report for the given estates and period
// selection. An empty estateIDs slice means every estate, merged.
func (s *ReportService) Build(ctx context.Context, estateIDs []string, sel report.Selection) (*Report, error) {
	return s.build(ctx, estateIDs, sel, true, true)
}

// BuildExpenses produces an expense-only report for the given period.
func (s *ReportService) BuildExpenses(ctx context.Context, estateIDs []string, sel report.Selection) (*Report, error) {
	return s.build(ctx, estateIDs, sel, true, false)
}

// BuildSales produces a sale-only report for the given period.
func (s *ReportService) BuildSales(ctx context.Context, estateIDs []string, sel report.Selection) (*Report, error) {
	return s.build(ctx, estateIDs, sel, false, true)
}

func (s *ReportService) build(ctx context.Context, estateIDs []string, sel report.Selection, withExpenses, withSales bool) (*Report, error) {
	period, err := report.Resolve(sel)
	if err != nil {
		return nil, fmt.Errorf("resolve period: %w", err)
	}

	if len(estateIDs) == 0 {
		estates, err := s.storage.ListEstates(ctx)
		if err != nil {
			return nil, fmt.Errorf("list estates: %w", err)
		}
		for _, e := range estates {
			estateIDs = append(estateIDs, e.ID)
			s.names.Set(e.ID, e.Name)
		}
	}

	var (
		expenses []core.Expense
		sales    []core.Sale
	)

	g, gctx := errgroup.WithContext(ctx)
	if withExpenses {
		g.Go(func() error {
			var err error
			expenses, err = s.storage.ListExpenses(gctx, estateIDs, period.Start, period.End)
			if err != nil {
				return fmt.Errorf("fetch expenses: %w", err)
			}
			return nil
		})
	}
	if withSales {
		g.Go(func() error {
			var err error
			sales, err = s.storage.ListSales(gctx, estateIDs, period.Start, period.End)
			if err != nil {
				return fmt.Errorf("fetch sales: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := report.Build(expenses, sales, sel.Mode)

	names, err := s.estateNames(ctx, result.Timeline)
	if err != nil {
		// The report itself is complete; missing names only degrade
		// timeline tagging.
		slog.WarnContext(ctx, "Failed to resolve estate names", "error", err)
		names = map[string]string{}
	}

	slog.InfoContext(ctx, "Report built",
		"mode", sel.Mode,
		"start", period.Start.String(),
		"end", period.End.String(),
		"estates", len(estateIDs),
		"transactions", len(result.Recent),
		"diagnostics", len(result.Diagnostics))

	return &Report{Period: period, Result: result, EstateNames: names}, nil
}

func (s *ReportService) estateNames(ctx context.Context, timeline []report.TimelineGroup) (map[string]string, error) {
	names := make(map[string]string)
	var misses []string
	for _, group := range timeline {
		for _, tx := range group.Items {
			if tx.EstateID == "" {
				continue
			}
			if _, seen := names[tx.EstateID]; seen {
				continue
			}
			if name, ok := s.names.Get(tx.EstateID); ok {
				names[tx.EstateID] = name
			} else {
				names[tx.EstateID] = ""
				misses = append(misses, tx.EstateID)
			}
		}
	}
	if len(misses) == 0 {
		return names, nil
	}

	estates, err := s.storage.ListEstates(ctx)
	if err != nil {
		return names, err
	}
	for _, e := range estates {
		s.names.Set(e.ID, e.Name)
		if _, wanted := names[e.ID]; wanted {
			names[e.ID] = e.Name
		}
	}
	return names, nil
}
