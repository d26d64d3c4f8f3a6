package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kasicka/internal/core"
	"kasicka/internal/storage"
)

// RecurrenceSpec asks Create to also register a recurring template for
// the new transaction. DayOfWeek is used for weekly, DayOfMonth for
// monthly.
type RecurrenceSpec struct {
	Frequency  core.Frequency
	DayOfWeek  int
	DayOfMonth int
}

// TransactionService is the mutation surface for transactions and
// categories. All validation happens before the first write, so a
// rejected request leaves no partial state behind.
type TransactionService struct {
	store *storage.Store
}

func NewTransactionService(store *storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// Create validates, then writes the transaction, its balance effect and
// the optional recurring template in one unit of work.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction, recurrence *RecurrenceSpec) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, tx.CategoryID, tx.Type); err != nil {
		return core.Transaction{}, err
	}

	var template core.RecurringTemplate
	if recurrence != nil {
		template = core.RecurringTemplate{
			Type:          tx.Type,
			Amount:        tx.Amount,
			CategoryID:    tx.CategoryID,
			AccountID:     tx.AccountID,
			Note:          tx.Note,
			Frequency:     recurrence.Frequency,
			DayOfWeek:     recurrence.DayOfWeek,
			DayOfMonth:    recurrence.DayOfMonth,
			Active:        true,
			LastProcessed: time.Now().UTC(),
		}
		if err := template.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}

	var created core.Transaction
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		created, err = q.CreateTransaction(ctx, tx)
		if err != nil {
			return err
		}
		if err := ApplyBalance(ctx, q, created); err != nil {
			return err
		}
		if recurrence != nil {
			if _, err := q.CreateRecurringTemplate(ctx, template); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", created.ID,
		"type", string(created.Type),
		"amount", created.Amount.String(),
		"recurring", recurrence != nil)
	return created, nil
}

// Update validates, then rewrites the row and moves its balance effect
// from the old shape to the new one in one unit of work.
func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(ctx, tx.CategoryID, tx.Type); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		old, err := q.GetTransaction(ctx, tx.ID)
		if err != nil {
			return err
		}
		if err := ReassignBalance(ctx, q, old, tx); err != nil {
			return err
		}
		return q.UpdateTransaction(ctx, tx)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	return nil
}

// Delete reverses the balance effect and removes the row in one unit of
// work.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		old, err := q.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if err := ReverseBalance(ctx, q, old); err != nil {
			return err
		}
		return q.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// CreateCategory validates and stores a new category.
func (s *TransactionService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.store.CreateCategory(ctx, c)
}

// UpdateCategory validates and rewrites an existing category.
func (s *TransactionService) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.store.UpdateCategory(ctx, c)
}

// DeleteCategory removes a category. Transactions that referenced it
// keep their category id and simply resolve to no category from then
// on.
func (s *TransactionService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// checkCategory confirms the category exists and that its kind matches
// the transaction type, so an expense can never land in an income
// category.
func (s *TransactionService) checkCategory(ctx context.Context, categoryID int64, txType core.TransactionType) error {
	cat, err := s.store.GetCategory(ctx, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%w: category %d does not exist", core.ErrMissingCategory, categoryID)
	}
	if err != nil {
		return err
	}
	if cat.Kind != txType {
		return fmt.Errorf("%w: category %q is %s, transaction is %s",
			core.ErrCategoryKind, cat.Name, cat.Kind, txType)
	}
	return nil
}
