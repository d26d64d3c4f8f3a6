package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kasicka/internal/core"
	"kasicka/internal/storage"

	"github.com/shopspring/decimal"
)

// ApplyBalance adds a transaction's signed amount to its account
// balance. Must run inside the same unit of work as the transaction
// write, see storage.Store.InTx.
func ApplyBalance(ctx context.Context, q *storage.Queries, tx core.Transaction) error {
	return shiftBalance(ctx, q, tx.AccountID, core.SignedAmount(tx.Type, tx.Amount))
}

// ReverseBalance undoes what ApplyBalance did for the same transaction.
func ReverseBalance(ctx context.Context, q *storage.Queries, tx core.Transaction) error {
	return shiftBalance(ctx, q, tx.AccountID, core.SignedAmount(tx.Type, tx.Amount).Neg())
}

// ReassignBalance moves a transaction's balance effect from its old
// shape to its new one. The reversal is written before the apply reads,
// so editing within one account composes into a single net delta.
func ReassignBalance(ctx context.Context, q *storage.Queries, oldTx, newTx core.Transaction) error {
	if err := ReverseBalance(ctx, q, oldTx); err != nil {
		return fmt.Errorf("reverse old balance: %w", err)
	}
	if err := ApplyBalance(ctx, q, newTx); err != nil {
		return fmt.Errorf("apply new balance: %w", err)
	}
	return nil
}

// shiftBalance reads the account, adds delta and writes the balance
// back. A missing account is fabricated under the id the transaction
// references, so the ledger keeps accepting transactions even if the
// account row is gone and every later shift finds the same account.
func shiftBalance(ctx context.Context, q *storage.Queries, accountID int64, delta decimal.Decimal) error {
	acc, err := q.GetAccount(ctx, accountID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Account missing, creating default",
			"account_id", accountID)
		acc, err = q.CreateAccountWithID(ctx, core.Account{
			ID:      accountID,
			Name:    storage.DefaultAccountName,
			Balance: decimal.Zero,
		})
	}
	if err != nil {
		return fmt.Errorf("load account %d: %w", accountID, err)
	}

	if err := q.SetAccountBalance(ctx, acc.ID, acc.Balance.Add(delta)); err != nil {
		return fmt.Errorf("write balance for account %d: %w", acc.ID, err)
	}
	return nil
}
