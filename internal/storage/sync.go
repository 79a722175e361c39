package storage

import (
	"context"
	"fmt"
)

// RecordKind identifies which table a pending ledger record comes from.
type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindSale    RecordKind = "sale"
)

// PendingRecord is a record waiting to be appended to the external ledger.
type PendingRecord struct {
	ID   string
	Kind RecordKind
}

// ListPendingSync returns up to limit unsynced records, oldest first,
// expenses before sales. Records already flagged with a sync error are
// included so the worker can retry them.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind FROM (
			SELECT id, 'expense' AS kind, created_at FROM expenses WHERE synced = 0
			UNION ALL
			SELECT id, 'sale' AS kind, created_at FROM sales WHERE synced = 0
		) ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync records: %w", err)
	}
	defer rows.Close()

	var pending []PendingRecord
	for rows.Next() {
		var p PendingRecord
		if err := rows.Scan(&p.ID, &p.Kind); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced flags a record as appended to the ledger and clears any
// previous sync error.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind RecordKind, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+tableFor(kind)+` SET synced = 1, sync_error = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark %s %s synced: %w", kind, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark %s %s synced: %w", kind, id, ErrNotFound)
	}
	return nil
}

// MarkSyncError flags a record whose ledger append failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, kind RecordKind, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE `+tableFor(kind)+` SET sync_error = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark %s %s sync error: %w", kind, id, err)
	}
	return nil
}

func tableFor(kind RecordKind) string {
	if kind == KindSale {
		return "sales"
	}
	return "expenses"
}
