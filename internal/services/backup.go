package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"kasicka/internal/core"
	"kasicka/internal/storage"
)

// Snapshot is the backup wire format. Budgets and recurring templates
// are deliberately not part of it; the format carries the same three
// collections it always has.
type Snapshot struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	Accounts     []core.Account     `json:"accounts"`
	ExportedAt   time.Time          `json:"exportedAt"`
}

// BackupService exports the ledger to JSON and merges JSON backups back
// in.
type BackupService struct {
	store *storage.Store
}

func NewBackupService(store *storage.Store) *BackupService {
	return &BackupService{store: store}
}

// ExportFilename returns the conventional backup filename for a given
// day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("finance-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// Export writes the full ledger as indented JSON.
func (s *BackupService) Export(ctx context.Context, w io.Writer, now time.Time) error {
	snapshot := Snapshot{ExportedAt: now.UTC()}

	var err error
	if snapshot.Transactions, err = s.store.ListTransactions(ctx); err != nil {
		return err
	}
	if snapshot.Categories, err = s.store.ListCategories(ctx); err != nil {
		return err
	}
	if snapshot.Accounts, err = s.store.ListAccounts(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"transactions", len(snapshot.Transactions),
		"categories", len(snapshot.Categories),
		"accounts", len(snapshot.Accounts))
	return nil
}

// Import parses a backup and merges it into the store. Parsing happens
// entirely before the first write, and the upserts run in one unit of
// work, so a malformed backup changes nothing. Records are matched by
// id: existing ids are overwritten, unknown ids inserted, everything
// else left alone. Absent collections are skipped.
func (s *BackupService) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", core.ErrImportFormat, err)
	}

	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		if err := q.BulkPutCategories(ctx, snapshot.Categories); err != nil {
			return err
		}
		if err := q.BulkPutAccounts(ctx, snapshot.Accounts); err != nil {
			return err
		}
		return q.BulkPutTransactions(ctx, snapshot.Transactions)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Backup imported",
		"transactions", len(snapshot.Transactions),
		"categories", len(snapshot.Categories),
		"accounts", len(snapshot.Accounts))
	return nil
}
