package services

import (
	"context"
	"testing"
	"time"

	"kasicka/internal/core"
)

func TestRecurringProcessor_MonthlyFiresOncePerMonth(t *testing.T) {
	store := newTestStore(t)
	svc := NewTransactionService(store)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	_, err := store.CreateRecurringTemplate(ctx, core.RecurringTemplate{
		Type:          core.Expense,
		Amount:        dec(t, "450"),
		CategoryID:    expenseCategoryID,
		AccountID:     defaultAccountID,
		Note:          "nájem",
		Frequency:     core.Monthly,
		DayOfMonth:    15,
		Active:        true,
		LastProcessed: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateRecurringTemplate() error = %v", err)
	}

	feb15 := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	n, err := processor.ProcessDue(ctx, feb15)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", n)
	}

	txs, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if txs[0].Note != "nájem" || !txs[0].Amount.Equal(dec(t, "450")) {
		t.Errorf("materialized transaction = %q %s", txs[0].Note, txs[0].Amount)
	}
	if !txs[0].Date.Equal(feb15) {
		t.Errorf("transaction date = %s, want %s", txs[0].Date, feb15)
	}
	if got := accountBalance(t, store, defaultAccountID); !got.Equal(dec(t, "-450")) {
		t.Errorf("balance after firing = %s, want -450", got)
	}

	// A second run the same day creates nothing.
	later := feb15.Add(3 * time.Hour)
	n, err = processor.ProcessDue(ctx, later)
	if err != nil {
		t.Fatalf("second ProcessDue() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second ProcessDue() = %d, want 0", n)
	}
	txs, _ = store.ListTransactions(ctx)
	if len(txs) != 1 {
		t.Errorf("transactions after second run = %d, want 1", len(txs))
	}
}

func TestRecurringProcessor_WeeklyAdvancesLastProcessed(t *testing.T) {
	store := newTestStore(t)
	svc := NewTransactionService(store)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	created, err := store.CreateRecurringTemplate(ctx, core.RecurringTemplate{
		Type:          core.Expense,
		Amount:        dec(t, "120"),
		CategoryID:    expenseCategoryID,
		AccountID:     defaultAccountID,
		Frequency:     core.Weekly,
		DayOfWeek:     1, // Monday
		Active:        true,
		LastProcessed: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateRecurringTemplate() error = %v", err)
	}

	nextMonday := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	n, err := processor.ProcessDue(ctx, nextMonday)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", n)
	}

	tpl, err := store.GetRecurringTemplate(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetRecurringTemplate() error = %v", err)
	}
	if !tpl.LastProcessed.Equal(nextMonday) {
		t.Errorf("LastProcessed = %s, want %s", tpl.LastProcessed, nextMonday)
	}
}

func TestRecurringProcessor_SkipsInactiveAndBrokenTemplates(t *testing.T) {
	store := newTestStore(t)
	svc := NewTransactionService(store)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	inactive, err := store.CreateRecurringTemplate(ctx, core.RecurringTemplate{
		Type: core.Expense, Amount: dec(t, "10"),
		CategoryID: expenseCategoryID, AccountID: defaultAccountID,
		Frequency: core.Monthly, DayOfMonth: 15, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTemplate() error = %v", err)
	}
	if err := store.SetRecurringActive(ctx, inactive.ID, false); err != nil {
		t.Fatalf("SetRecurringActive() error = %v", err)
	}

	// References a category that does not exist: the create fails, the
	// run continues.
	if _, err := store.CreateRecurringTemplate(ctx, core.RecurringTemplate{
		Type: core.Expense, Amount: dec(t, "20"),
		CategoryID: 999, AccountID: defaultAccountID,
		Frequency: core.Monthly, DayOfMonth: 15, Active: true,
	}); err != nil {
		t.Fatalf("CreateRecurringTemplate() error = %v", err)
	}

	healthy, err := store.CreateRecurringTemplate(ctx, core.RecurringTemplate{
		Type: core.Expense, Amount: dec(t, "30"),
		CategoryID: expenseCategoryID, AccountID: defaultAccountID,
		Frequency: core.Monthly, DayOfMonth: 15, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTemplate() error = %v", err)
	}

	n, err := processor.ProcessDue(ctx, time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("ProcessDue() = %d, want 1 (only the healthy template)", n)
	}

	txs, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 1 || !txs[0].Amount.Equal(dec(t, "30")) {
		t.Errorf("materialized transactions = %v, want only the healthy one", txs)
	}

	// The broken template keeps its zero LastProcessed for a retry next
	// run; the healthy one advanced.
	tpl, err := store.GetRecurringTemplate(ctx, healthy.ID)
	if err != nil {
		t.Fatalf("GetRecurringTemplate() error = %v", err)
	}
	if tpl.LastProcessed.IsZero() {
		t.Error("healthy template LastProcessed not advanced")
	}
}
