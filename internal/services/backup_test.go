package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kasicka/internal/core"
)

func TestBackup_RoundTrip(t *testing.T) {
	source := newTestStore(t)
	transactions := NewTransactionService(source)
	ctx := context.Background()

	created, err := transactions.Create(ctx, core.Transaction{
		Type:       core.Expense,
		Amount:     dec(t, "123.45"),
		CategoryID: expenseCategoryID,
		AccountID:  defaultAccountID,
		Date:       time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Note:       "nákup",
	}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewBackupService(source).Export(ctx, &buf, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	target := newTestStore(t)
	if err := NewBackupService(target).Import(ctx, &buf); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	got, err := target.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction() in target error = %v", err)
	}
	if !got.Amount.Equal(created.Amount) || got.Note != created.Note || got.Type != created.Type {
		t.Errorf("imported transaction = %+v, want %+v", got, created)
	}
	if !got.Date.Equal(created.Date) {
		t.Errorf("imported date = %s, want %s", got.Date, created.Date)
	}

	// The source account carried its updated balance across.
	acc, err := target.GetAccount(ctx, defaultAccountID)
	if err != nil {
		t.Fatalf("GetAccount() in target error = %v", err)
	}
	if !acc.Balance.Equal(dec(t, "-123.45")) {
		t.Errorf("imported balance = %s, want -123.45", acc.Balance)
	}

	categories, err := target.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() in target error = %v", err)
	}
	if len(categories) != 5 {
		t.Errorf("categories after import = %d, want 5 (upserted over seeds)", len(categories))
	}
}

func TestBackup_ImportMalformed(t *testing.T) {
	store := newTestStore(t)
	backup := NewBackupService(store)
	ctx := context.Background()

	err := backup.Import(ctx, strings.NewReader(`{"transactions": [{`))
	if !errors.Is(err, core.ErrImportFormat) {
		t.Fatalf("Import(malformed) error = %v, want ErrImportFormat", err)
	}

	txs, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions after failed import = %d, want 0", len(txs))
	}
}

func TestBackup_ImportSkipsAbsentCollections(t *testing.T) {
	store := newTestStore(t)
	backup := NewBackupService(store)
	ctx := context.Background()

	payload := `{"categories": [{"id": 1, "name": "Potraviny", "color": "#ff0000", "icon": "Utensils", "type": "expense"}]}`
	if err := backup.Import(ctx, strings.NewReader(payload)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	cat, err := store.GetCategory(ctx, 1)
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if cat.Name != "Potraviny" {
		t.Errorf("category 1 name = %q, want overwritten Potraviny", cat.Name)
	}

	// Accounts were absent from the payload; the seed survives.
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Errorf("accounts = %d, want untouched seed", len(accounts))
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2024, 3, 11, 23, 30, 0, 0, time.UTC))
	if got != "finance-backup-2024-03-11.json" {
		t.Errorf("ExportFilename() = %q", got)
	}
}
