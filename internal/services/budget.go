package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kasicka/internal/core"
	"kasicka/internal/storage"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the per-category monthly projection: the configured
// limit joined with what has actually been spent this month. It is
// recomputed on every call and never persisted.
type BudgetStatus struct {
	Budget     core.Budget
	Category   core.Category
	Spent      decimal.Decimal
	Percentage int
	OverBudget bool
	Overage    decimal.Decimal
}

// MonthTotals summarizes a calendar month of the ledger.
type MonthTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// BudgetService maintains per-category monthly limits and computes
// their status against the current month's expenses.
type BudgetService struct {
	store *storage.Store
}

func NewBudgetService(store *storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// SetLimit creates or replaces the budget for a category.
func (s *BudgetService) SetLimit(ctx context.Context, categoryID int64, limit decimal.Decimal) (core.Budget, error) {
	if !limit.IsPositive() {
		return core.Budget{}, fmt.Errorf("%w: limit must be positive, got %s",
			core.ErrInvalidBudgetLimit, limit)
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Budget{}, fmt.Errorf("%w: category %d does not exist",
				core.ErrMissingCategory, categoryID)
		}
		return core.Budget{}, err
	}
	return s.store.UpsertBudget(ctx, categoryID, limit)
}

// Remove deletes a budget by id.
func (s *BudgetService) Remove(ctx context.Context, id int64) error {
	return s.store.DeleteBudget(ctx, id)
}

// Statuses joins every budget with the expense sums of now's calendar
// month. Percentage is rounded and capped at 100; OverBudget and
// Overage stay uncapped so a blown budget shows by how much.
func (s *BudgetService) Statuses(ctx context.Context, now time.Time) ([]BudgetStatus, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	start, end := monthWindow(now)
	spent, err := s.store.SumExpensesByCategory(ctx, start, end)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		status := BudgetStatus{
			Budget:   b,
			Category: byID[b.CategoryID],
			Spent:    spent[b.CategoryID],
			Overage:  decimal.Zero,
		}
		if b.Limit.IsPositive() {
			pct := int(status.Spent.Mul(decimal.NewFromInt(100)).Div(b.Limit).Round(0).IntPart())
			if pct > 100 {
				pct = 100
			}
			status.Percentage = pct
		}
		if status.Spent.GreaterThan(b.Limit) {
			status.OverBudget = true
			status.Overage = status.Spent.Sub(b.Limit)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Totals sums income and expenses over now's calendar month.
func (s *BudgetService) Totals(ctx context.Context, now time.Time) (MonthTotals, error) {
	start, end := monthWindow(now)
	txs, err := s.store.ListTransactionsInRange(ctx, start, end)
	if err != nil {
		return MonthTotals{}, err
	}

	totals := MonthTotals{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			totals.Income = totals.Income.Add(tx.Amount)
		case core.Expense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals, nil
}

// monthWindow returns [first of now's month, first of the next month)
// in UTC.
func monthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
