// Package storage implements the SQLite-backed record store behind the
// reporting engine. It owns all date-range and estate filtering: the report
// core receives batches already scoped to the resolved period and never
// re-filters.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"farmledger/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEstate stores a new estate and returns its generated ID.
func (r *SQLiteRepository) CreateEstate(ctx context.Context, e core.Estate) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO estates (id, name) VALUES (?, ?)`, id, e.Name)
	if err != nil {
		return "", fmt.Errorf("insert estate: %w", err)
	}
	slog.InfoContext(ctx, "Estate created", "id", id, "name", e.Name)
	return id, nil
}

// ListEstates returns all estates ordered by name.
func (r *SQLiteRepository) ListEstates(ctx context.Context) ([]core.Estate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM estates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query estates: %w", err)
	}
	defer rows.Close()

	var estates []core.Estate
	for rows.Next() {
		var e core.Estate
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan estate: %w", err)
		}
		estates = append(estates, e)
	}
	return estates, rows.Err()
}

// CreateWorker stores a new worker and returns its generated ID.
func (r *SQLiteRepository) CreateWorker(ctx context.Context, w core.Worker) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workers (id, estate_id, name, phone, daily_wage_paise) VALUES (?, ?, ?, ?, ?)`,
		id, w.EstateID, w.Name, w.Phone, w.DailyWage.Paise)
	if err != nil {
		return "", fmt.Errorf("insert worker: %w", err)
	}
	slog.InfoContext(ctx, "Worker created", "id", id, "estate_id", w.EstateID, "name", w.Name)
	return id, nil
}

// ListWorkers returns the workers of one estate ordered by name.
func (r *SQLiteRepository) ListWorkers(ctx context.Context, estateID string) ([]core.Worker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, estate_id, name, phone, daily_wage_paise FROM workers WHERE estate_id = ? ORDER BY name`,
		estateID)
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	var workers []core.Worker
	for rows.Next() {
		var w core.Worker
		if err := rows.Scan(&w.ID, &w.EstateID, &w.Name, &w.Phone, &w.DailyWage.Paise); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// GetWorker fetches a single worker by ID.
func (r *SQLiteRepository) GetWorker(ctx context.Context, id string) (core.Worker, error) {
	var w core.Worker
	err := r.db.QueryRowContext(ctx,
		`SELECT id, estate_id, name, phone, daily_wage_paise FROM workers WHERE id = ?`, id).
		Scan(&w.ID, &w.EstateID, &w.Name, &w.Phone, &w.DailyWage.Paise)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Worker{}, fmt.Errorf("get worker %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Worker{}, fmt.Errorf("get worker %s: %w", id, err)
	}
	return w, nil
}

// CreateExpense stores an expense and returns its generated ID.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, estate_id, entry_date, category, amount_paise, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.EstateID, e.Date.String(), e.Category, e.Amount.Paise, e.Description)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"estate_id", e.EstateID,
		"category", e.Category,
		"amount_paise", e.Amount.Paise,
		"date", e.Date.String())
	return id, nil
}

// GetExpense fetches a single expense by ID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, estate_id, entry_date, category, amount_paise, description FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.EstateID, &dateStr, &e.Category, &e.Amount.Paise, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	if e.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Expense{}, fmt.Errorf("expense %s has bad date %q: %w", id, dateStr, err)
	}
	return e, nil
}

// ListExpenses returns the expenses of the given estates with entry_date in
// [from, to], both inclusive. Dates compare lexicographically because they
// are stored as YYYY-MM-DD.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, estateIDs []string, from, to core.Date) ([]core.Expense, error) {
	if len(estateIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, estate_id, entry_date, category, amount_paise, description
		FROM expenses
		WHERE estate_id IN (` + placeholders(len(estateIDs)) + `) AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date, created_at`
	args := rangeArgs(estateIDs, from, to)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &e.EstateID, &dateStr, &e.Category, &e.Amount.Paise, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			// Leave the date zero: normalization reports it as an
			// invalid record instead of dropping the row silently.
			slog.WarnContext(ctx, "Expense has unparseable date", "id", e.ID, "date", dateStr)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreateSale stores a sale bill and its items in one transaction, returning
// the generated sale ID.
func (r *SQLiteRepository) CreateSale(ctx context.Context, s core.Sale) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, estate_id, entry_date, buyer_name, grand_total_paise)
		 VALUES (?, ?, ?, ?, ?)`,
		id, s.EstateID, s.Date.String(), s.BuyerName, s.GrandTotal.Paise)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, crop, sub_type, weight_kg, price_per_kg_paise, line_total_paise)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, item.Crop, item.SubType, item.WeightKg, item.PricePerKg.Paise, item.LineTotal.Paise)
		if err != nil {
			return "", fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit sale: %w", err)
	}

	slog.InfoContext(ctx, "Sale saved",
		"id", id,
		"estate_id", s.EstateID,
		"buyer", s.BuyerName,
		"items", len(s.Items),
		"grand_total_paise", s.GrandTotal.Paise,
		"date", s.Date.String())
	return id, nil
}

// GetSale fetches a single sale with its items.
func (r *SQLiteRepository) GetSale(ctx context.Context, id string) (core.Sale, error) {
	var (
		s       core.Sale
		dateStr string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, estate_id, entry_date, buyer_name, grand_total_paise FROM sales WHERE id = ?`, id).
		Scan(&s.ID, &s.EstateID, &dateStr, &s.BuyerName, &s.GrandTotal.Paise)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sale{}, fmt.Errorf("get sale %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Sale{}, fmt.Errorf("get sale %s: %w", id, err)
	}
	if s.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Sale{}, fmt.Errorf("sale %s has bad date %q: %w", id, dateStr, err)
	}
	if s.Items, err = r.saleItems(ctx, []string{id}); err != nil {
		return core.Sale{}, err
	}
	return s, nil
}

// ListSales returns the sales of the given estates with entry_date in
// [from, to], items attached.
func (r *SQLiteRepository) ListSales(ctx context.Context, estateIDs []string, from, to core.Date) ([]core.Sale, error) {
	if len(estateIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, estate_id, entry_date, buyer_name, grand_total_paise
		FROM sales
		WHERE estate_id IN (` + placeholders(len(estateIDs)) + `) AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date, created_at`
	args := rangeArgs(estateIDs, from, to)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var (
		sales []core.Sale
		ids   []string
	)
	for rows.Next() {
		var (
			s       core.Sale
			dateStr string
		)
		if err := rows.Scan(&s.ID, &s.EstateID, &dateStr, &s.BuyerName, &s.GrandTotal.Paise); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if s.Date, err = core.ParseDate(dateStr); err != nil {
			slog.WarnContext(ctx, "Sale has unparseable date", "id", s.ID, "date", dateStr)
		}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	items, err := r.saleItemsBySale(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = items[sales[i].ID]
	}
	return sales, nil
}

func (r *SQLiteRepository) saleItems(ctx context.Context, saleIDs []string) ([]core.SaleItem, error) {
	bySale, err := r.saleItemsBySale(ctx, saleIDs)
	if err != nil {
		return nil, err
	}
	var items []core.SaleItem
	for _, id := range saleIDs {
		items = append(items, bySale[id]...)
	}
	return items, nil
}

func (r *SQLiteRepository) saleItemsBySale(ctx context.Context, saleIDs []string) (map[string][]core.SaleItem, error) {
	query := `SELECT sale_id, crop, sub_type, weight_kg, price_per_kg_paise, line_total_paise
		FROM sale_items WHERE sale_id IN (` + placeholders(len(saleIDs)) + `) ORDER BY id`
	args := make([]any, len(saleIDs))
	for i, id := range saleIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	bySale := make(map[string][]core.SaleItem)
	for rows.Next() {
		var (
			saleID string
			item   core.SaleItem
		)
		if err := rows.Scan(&saleID, &item.Crop, &item.SubType, &item.WeightKg, &item.PricePerKg.Paise, &item.LineTotal.Paise); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		bySale[saleID] = append(bySale[saleID], item)
	}
	return bySale, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func rangeArgs(estateIDs []string, from, to core.Date) []any {
	args := make([]any, 0, len(estateIDs)+2)
	for _, id := range estateIDs {
		args = append(args, id)
	}
	return append(args, from.String(), to.String())
}
