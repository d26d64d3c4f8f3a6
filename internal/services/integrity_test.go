package services

import (
	"context"
	"testing"
	"time"

	"kasicka/internal/core"
)

func TestIntegrity_VerifyAndRepair(t *testing.T) {
	store := newTestStore(t)
	transactions := NewTransactionService(store)
	integrity := NewIntegrityService(store)
	ctx := context.Background()

	if _, err := transactions.Create(ctx, core.Transaction{
		Type: core.Income, Amount: dec(t, "5000"),
		CategoryID: incomeCategoryID, AccountID: defaultAccountID,
		Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	drifts, err := integrity.Verify(ctx)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("Verify() on consistent ledger = %v, want none", drifts)
	}

	// Corrupt the stored balance behind the service's back.
	if err := store.SetAccountBalance(ctx, defaultAccountID, dec(t, "9999")); err != nil {
		t.Fatalf("SetAccountBalance() error = %v", err)
	}

	drifts, err = integrity.Verify(ctx)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("Verify() drifts = %d, want 1", len(drifts))
	}
	if !drifts[0].Stored.Equal(dec(t, "9999")) || !drifts[0].Computed.Equal(dec(t, "5000")) {
		t.Errorf("drift = stored %s computed %s", drifts[0].Stored, drifts[0].Computed)
	}

	repaired, err := integrity.Repair(ctx)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if len(repaired) != 1 {
		t.Fatalf("Repair() = %d accounts, want 1", len(repaired))
	}
	if got := accountBalance(t, store, defaultAccountID); !got.Equal(dec(t, "5000")) {
		t.Errorf("balance after repair = %s, want 5000", got)
	}

	// A clean ledger repairs to nothing.
	repaired, err = integrity.Repair(ctx)
	if err != nil {
		t.Fatalf("second Repair() error = %v", err)
	}
	if len(repaired) != 0 {
		t.Errorf("second Repair() = %v, want none", repaired)
	}
}
