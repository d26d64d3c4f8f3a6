package storage

import (
	"context"
	"fmt"
	"log/slog"

	"kasicka/internal/core"

	"github.com/shopspring/decimal"
)

// Defaults written into a fresh (or wiped-and-reopened) store. The
// category set and the single zero-balance account mirror the data the
// app has always shipped with.
var defaultCategories = []core.Category{
	{Name: "Jídlo", Icon: core.IconUtensils, Color: "#ef4444", Kind: core.Expense},
	{Name: "Bydlení", Icon: core.IconHome, Color: "#3b82f6", Kind: core.Expense},
	{Name: "Doprava", Icon: core.IconCar, Color: "#f59e0b", Kind: core.Expense},
	{Name: "Zábava", Icon: core.IconGamepad, Color: "#8b5cf6", Kind: core.Expense},
	{Name: "Mzda", Icon: core.IconBanknote, Color: "#10b981", Kind: core.Income},
}

// DefaultAccountName names the account created whenever the ledger has
// none, both at seed time and when the balance keeper has to fabricate
// one for an orphaned transaction.
const DefaultAccountName = "Hlavní účet"

// seedDefaults populates empty collections. It is idempotent per
// collection: wiping accounts and reopening re-seeds the default
// account without duplicating surviving categories.
func (s *Store) seedDefaults(ctx context.Context) error {
	var categoryCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&categoryCount); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if categoryCount == 0 {
		for _, c := range defaultCategories {
			if _, err := s.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", len(defaultCategories))
	}

	var accountCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&accountCount); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if accountCount == 0 {
		acc, err := s.CreateAccount(ctx, core.Account{Name: DefaultAccountName, Balance: decimal.Zero})
		if err != nil {
			return fmt.Errorf("seed default account: %w", err)
		}
		slog.InfoContext(ctx, "Seeded default account", "id", acc.ID, "name", acc.Name)
	}

	return nil
}
