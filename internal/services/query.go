package services

import (
	"context"
	"strings"

	"kasicka/internal/core"
	"kasicka/internal/storage"

	"github.com/shopspring/decimal"
)

// Filter narrows the transaction list. Zero-valued fields are ignored.
type Filter struct {
	// Search matches case-insensitively against the note or the
	// resolved category name.
	Search string
	// Month restricts to a calendar month, "YYYY-MM".
	Month string
	// CategoryID restricts to one category.
	CategoryID int64
}

// DayGroup is one day's bucket of a filtered transaction list.
type DayGroup struct {
	Day          string // "YYYY-MM-DD"
	Transactions []core.Transaction
}

// QueryService builds read-only views over the ledger. Every view is
// computed from the stored transactions at call time.
type QueryService struct {
	store *storage.Store
}

func NewQueryService(store *storage.Store) *QueryService {
	return &QueryService{store: store}
}

// List returns transactions matching the filter, newest first.
func (s *QueryService) List(ctx context.Context, f Filter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	var categoryNames map[int64]string
	if f.Search != "" {
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		categoryNames = make(map[int64]string, len(categories))
		for _, c := range categories {
			categoryNames[c.ID] = c.Name
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.CategoryID != 0 && tx.CategoryID != f.CategoryID {
			continue
		}
		if f.Month != "" && tx.Date.UTC().Format("2006-01") != f.Month {
			continue
		}
		if search != "" && !matchesSearch(tx, categoryNames[tx.CategoryID], search) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered, nil
}

// GroupByDay buckets an already ordered transaction list by calendar
// day, preserving both the bucket order and the order within each
// bucket.
func (s *QueryService) GroupByDay(txs []core.Transaction) []DayGroup {
	var groups []DayGroup
	for _, tx := range txs {
		day := tx.Date.UTC().Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Day != day {
			groups = append(groups, DayGroup{Day: day})
		}
		last := &groups[len(groups)-1]
		last.Transactions = append(last.Transactions, tx)
	}
	return groups
}

// Recent returns the newest limit transactions.
func (s *QueryService) Recent(ctx context.Context, limit int) ([]core.Transaction, error) {
	return s.store.RecentTransactions(ctx, limit)
}

// TotalBalance sums the balances of every account.
func (s *QueryService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

func matchesSearch(tx core.Transaction, categoryName, search string) bool {
	if strings.Contains(strings.ToLower(tx.Note), search) {
		return true
	}
	return categoryName != "" && strings.Contains(strings.ToLower(categoryName), search)
}
