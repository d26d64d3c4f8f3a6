package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

type (
	TransactionType string

	Frequency string

	// Account holds a running balance maintained by the balance keeper.
	// The balance always equals the sum of signed amounts of the
	// transactions applied against it since creation.
	Account struct {
		ID      int64           `json:"id"`
		Name    string          `json:"name"`
		Balance decimal.Decimal `json:"balance"`
	}

	Category struct {
		ID    int64           `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
		Icon  Icon            `json:"icon"`
		Kind  TransactionType `json:"type"`
	}

	// Transaction stores a positive amount; the sign is carried by Type.
	Transaction struct {
		ID         int64           `json:"id"`
		Type       TransactionType `json:"type"`
		Amount     decimal.Decimal `json:"amount"`
		CategoryID int64           `json:"categoryId"`
		AccountID  int64           `json:"accountId"`
		Date       time.Time       `json:"date"`
		Note       string          `json:"note,omitempty"`
	}

	// Budget is current-month-only: at most one per category, upserted by
	// category, aggregated against the current calendar month.
	Budget struct {
		ID         int64           `json:"id"`
		CategoryID int64           `json:"categoryId"`
		Limit      decimal.Decimal `json:"limit"`
	}

	// RecurringTemplate describes a transaction to be re-created on a
	// schedule. Exactly one anchor is meaningful: DayOfWeek for weekly
	// templates, DayOfMonth for monthly ones.
	RecurringTemplate struct {
		ID            int64           `json:"id"`
		Type          TransactionType `json:"type"`
		Amount        decimal.Decimal `json:"amount"`
		CategoryID    int64           `json:"categoryId"`
		AccountID     int64           `json:"accountId"`
		Note          string          `json:"note,omitempty"`
		Frequency     Frequency       `json:"frequency"`
		DayOfWeek     int             `json:"dayOfWeek"`
		DayOfMonth    int             `json:"dayOfMonth"`
		Active        bool            `json:"isActive"`
		LastProcessed time.Time       `json:"lastProcessed"`
	}
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// SignedAmount returns the amount with the sign implied by the type:
// positive for income, negative for expense.
func SignedAmount(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == Expense {
		return amount.Neg()
	}
	return amount
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidType
	}
	if c.Icon != "" && !c.Icon.Valid() {
		return ErrInvalidIcon
	}
	return nil
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if tx.CategoryID == 0 {
		return ErrMissingCategory
	}
	if tx.AccountID == 0 {
		return ErrMissingAccount
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == 0 {
		return ErrMissingCategory
	}
	if !b.Limit.IsPositive() {
		return ErrInvalidBudgetLimit
	}
	return nil
}

func (rt RecurringTemplate) Validate() error {
	if !rt.Type.Valid() {
		return ErrInvalidType
	}
	if !rt.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if rt.CategoryID == 0 {
		return ErrMissingCategory
	}
	if rt.AccountID == 0 {
		return ErrMissingAccount
	}
	switch rt.Frequency {
	case Weekly:
		if rt.DayOfWeek < 0 || rt.DayOfWeek > 6 {
			return ErrInvalidDayOfWeek
		}
	case Monthly:
		if rt.DayOfMonth < 1 || rt.DayOfMonth > 31 {
			return ErrInvalidDayOfMonth
		}
	default:
		return ErrInvalidFrequency
	}
	return nil
}
