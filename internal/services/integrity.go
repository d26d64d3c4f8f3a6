package services

import (
	"context"
	"log/slog"

	"kasicka/internal/core"
	"kasicka/internal/storage"

	"github.com/shopspring/decimal"
)

// Drift reports one account whose stored balance disagrees with the
// balance recomputed from its transactions.
type Drift struct {
	AccountID int64
	Name      string
	Stored    decimal.Decimal
	Computed  decimal.Decimal
}

// IntegrityService reconciles stored account balances against the
// transaction history. Drift can appear after a crash between a
// transaction write and its balance update, or after imports that
// brought balances and transactions from different moments.
type IntegrityService struct {
	store *storage.Store
}

func NewIntegrityService(store *storage.Store) *IntegrityService {
	return &IntegrityService{store: store}
}

// Verify recomputes every account balance from its transactions and
// returns the accounts that drifted. An empty result means the ledger
// is consistent.
func (s *IntegrityService) Verify(ctx context.Context) ([]Drift, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	computed := make(map[int64]decimal.Decimal, len(accounts))
	for _, tx := range txs {
		computed[tx.AccountID] = computed[tx.AccountID].Add(core.SignedAmount(tx.Type, tx.Amount))
	}

	var drifts []Drift
	for _, a := range accounts {
		want := computed[a.ID]
		if !a.Balance.Equal(want) {
			drifts = append(drifts, Drift{
				AccountID: a.ID,
				Name:      a.Name,
				Stored:    a.Balance,
				Computed:  want,
			})
		}
	}

	if len(drifts) > 0 {
		slog.WarnContext(ctx, "Balance drift detected", "accounts", len(drifts))
	}
	return drifts, nil
}

// Repair rewrites every drifted balance to its recomputed value and
// returns what was fixed.
func (s *IntegrityService) Repair(ctx context.Context) ([]Drift, error) {
	drifts, err := s.Verify(ctx)
	if err != nil {
		return nil, err
	}
	if len(drifts) == 0 {
		return nil, nil
	}

	err = s.store.InTx(ctx, func(q *storage.Queries) error {
		for _, d := range drifts {
			if err := q.SetAccountBalance(ctx, d.AccountID, d.Computed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Balances repaired", "accounts", len(drifts))
	return drifts, nil
}
