// Package memory holds an in-process record store used by tests and by
// deployments that run without a database file.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"farmledger/internal/core"
	"farmledger/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	estates  []core.Estate
	workers  []core.Worker
	expenses []core.Expense
	sales    []core.Sale

	// insertion order doubles as created_at for pending-sync iteration
	pending []storage.PendingRecord
	synced  map[string]bool
	syncErr map[string]bool
}

func New() *Store {
	return &Store{
		synced:  make(map[string]bool),
		syncErr: make(map[string]bool),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateEstate(_ context.Context, e core.Estate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.estates = append(s.estates, e)
	return e.ID, nil
}

func (s *Store) ListEstates(_ context.Context) ([]core.Estate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Estate(nil), s.estates...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateWorker(_ context.Context, w core.Worker) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = uuid.NewString()
	s.workers = append(s.workers, w)
	return w.ID, nil
}

func (s *Store) ListWorkers(_ context.Context, estateID string) ([]core.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Worker
	for _, w := range s.workers {
		if w.EstateID == estateID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetWorker(_ context.Context, id string) (core.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workers {
		if w.ID == id {
			return w, nil
		}
	}
	return core.Worker{}, fmt.Errorf("get worker %s: %w", id, storage.ErrNotFound)
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.expenses = append(s.expenses, e)
	s.pending = append(s.pending, storage.PendingRecord{ID: e.ID, Kind: storage.KindExpense})
	return e.ID, nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("get expense %s: %w", id, storage.ErrNotFound)
}

func (s *Store) ListExpenses(_ context.Context, estateIDs []string, from, to core.Date) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := idSet(estateIDs)
	var out []core.Expense
	for _, e := range s.expenses {
		if want[e.EstateID] && inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CreateSale(_ context.Context, sale core.Sale) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.ID = uuid.NewString()
	sale.Items = append([]core.SaleItem(nil), sale.Items...)
	s.sales = append(s.sales, sale)
	s.pending = append(s.pending, storage.PendingRecord{ID: sale.ID, Kind: storage.KindSale})
	return sale.ID, nil
}

func (s *Store) GetSale(_ context.Context, id string) (core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			sale.Items = append([]core.SaleItem(nil), sale.Items...)
			return sale, nil
		}
	}
	return core.Sale{}, fmt.Errorf("get sale %s: %w", id, storage.ErrNotFound)
}

func (s *Store) ListSales(_ context.Context, estateIDs []string, from, to core.Date) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := idSet(estateIDs)
	var out []core.Sale
	for _, sale := range s.sales {
		if want[sale.EstateID] && inRange(sale.Date, from, to) {
			sale.Items = append([]core.SaleItem(nil), sale.Items...)
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) ListPendingSync(_ context.Context, limit int) ([]storage.PendingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.PendingRecord
	for _, p := range s.pending {
		if s.synced[p.ID] {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, _ storage.RecordKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced[id] = true
	delete(s.syncErr, id)
	return nil
}

func (s *Store) MarkSyncError(_ context.Context, _ storage.RecordKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncErr[id] = true
	return nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func inRange(d, from, to core.Date) bool {
	return !d.Before(from) && !d.After(to)
}
