package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kasicka/internal/core"

	"github.com/shopspring/decimal"
)

// Queries is the collection-level query set, bound either to the store
// connection or to an open unit of work (see Store.InTx).
type Queries struct {
	db DBTX
}

// Timestamps are stored as UTC RFC3339 with second precision so plain
// text ordering matches chronological ordering.
func encodeTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ----------------------------------------------------------------------------
// Accounts
// ----------------------------------------------------------------------------

func (q *Queries) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (name, balance) VALUES (?, ?)`,
		a.Name, a.Balance.String())
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("create account id: %w", err)
	}
	a.ID = id
	return a, nil
}

// CreateAccountWithID inserts an account under a caller-chosen id. The
// balance keeper uses it to fabricate the account a dangling
// transaction references, so the reference stays intact and later
// operations find the same account again.
func (q *Queries) CreateAccountWithID(ctx context.Context, a core.Account) (core.Account, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, balance) VALUES (?, ?, ?)`,
		a.ID, a.Name, a.Balance.String())
	if err != nil {
		return core.Account{}, fmt.Errorf("create account %d: %w", a.ID, err)
	}
	return a, nil
}

func (q *Queries) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, balance FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (q *Queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, balance FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (q *Queries) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, balance = ? WHERE id = ?`,
		a.Name, a.Balance.String(), a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res, "account", a.ID)
}

func (q *Queries) SetAccountBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE id = ?`, balance.String(), id)
	if err != nil {
		return fmt.Errorf("set account balance: %w", err)
	}
	return requireRow(res, "account", id)
}

func (q *Queries) DeleteAccount(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res, "account", id)
}

func (q *Queries) BulkPutAccounts(ctx context.Context, accounts []core.Account) error {
	for _, a := range accounts {
		if err := q.upsertAccount(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) upsertAccount(ctx context.Context, a core.Account) error {
	if a.ID == 0 {
		_, err := q.CreateAccount(ctx, a)
		return err
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, balance) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, balance = excluded.balance`,
		a.ID, a.Name, a.Balance.String())
	if err != nil {
		return fmt.Errorf("upsert account %d: %w", a.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (core.Account, error) {
	var (
		a       core.Account
		balance string
	)
	if err := r.Scan(&a.ID, &a.Name, &balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Account{}, fmt.Errorf("account: %w", core.ErrNotFound)
		}
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	b, err := decodeDecimal(balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("decode account balance: %w", err)
	}
	a.Balance = b
	return a, nil
}

// ----------------------------------------------------------------------------
// Categories
// ----------------------------------------------------------------------------

func (q *Queries) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (name, color, icon, kind) VALUES (?, ?, ?, ?)`,
		c.Name, c.Color, string(c.Icon), string(c.Kind))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, kind FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, color, icon, kind FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q *Queries) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ?, kind = ? WHERE id = ?`,
		c.Name, c.Color, string(c.Icon), string(c.Kind), c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category", c.ID)
}

// DeleteCategory removes the category only. Referencing transactions
// are left orphaned on purpose: there is no cascade.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category", id)
}

func (q *Queries) BulkPutCategories(ctx context.Context, categories []core.Category) error {
	for _, c := range categories {
		c.Icon = c.Icon.Normalize()
		if c.Kind == "" {
			c.Kind = core.Expense
		}
		if c.ID == 0 {
			if _, err := q.CreateCategory(ctx, c); err != nil {
				return err
			}
			continue
		}
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO categories (id, name, color, icon, kind) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name, color = excluded.color,
			   icon = excluded.icon, kind = excluded.kind`,
			c.ID, c.Name, c.Color, string(c.Icon), string(c.Kind))
		if err != nil {
			return fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
	}
	return nil
}

func scanCategory(r rowScanner) (core.Category, error) {
	var (
		c          core.Category
		icon, kind string
	)
	if err := r.Scan(&c.ID, &c.Name, &c.Color, &icon, &kind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, fmt.Errorf("category: %w", core.ErrNotFound)
		}
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Icon = core.Icon(icon)
	c.Kind = core.TransactionType(kind)
	return c, nil
}

// ----------------------------------------------------------------------------
// Transactions
// ----------------------------------------------------------------------------

const transactionColumns = `id, type, amount, category_id, account_id, date, note`

func (q *Queries) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (type, amount, category_id, account_id, date, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Amount.String(), tx.CategoryID, tx.AccountID,
		encodeTime(tx.Date), tx.Note)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	tx.ID = id
	tx.Date = tx.Date.UTC().Truncate(time.Second)
	return tx, nil
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

// ListTransactions returns every transaction in reverse-chronological
// order, ties broken by newest id first.
func (q *Queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return q.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
}

// RecentTransactions returns the newest limit transactions.
func (q *Queries) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	return q.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC LIMIT ?`,
		limit)
}

// ListTransactionsInRange returns transactions with start <= date < end,
// reverse-chronological.
func (q *Queries) ListTransactionsInRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return q.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE date >= ? AND date < ? ORDER BY date DESC, id DESC`,
		encodeTime(start), encodeTime(end))
}

func (q *Queries) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	return q.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE account_id = ? ORDER BY date DESC, id DESC`,
		accountID)
}

func (q *Queries) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions
		 SET type = ?, amount = ?, category_id = ?, account_id = ?, date = ?, note = ?
		 WHERE id = ?`,
		string(tx.Type), tx.Amount.String(), tx.CategoryID, tx.AccountID,
		encodeTime(tx.Date), tx.Note, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction", tx.ID)
}

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction", id)
}

func (q *Queries) BulkPutTransactions(ctx context.Context, txs []core.Transaction) error {
	for _, tx := range txs {
		if tx.ID == 0 {
			if _, err := q.CreateTransaction(ctx, tx); err != nil {
				return err
			}
			continue
		}
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO transactions (id, type, amount, category_id, account_id, date, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   type = excluded.type, amount = excluded.amount,
			   category_id = excluded.category_id, account_id = excluded.account_id,
			   date = excluded.date, note = excluded.note`,
			tx.ID, string(tx.Type), tx.Amount.String(), tx.CategoryID, tx.AccountID,
			encodeTime(tx.Date), tx.Note)
		if err != nil {
			return fmt.Errorf("upsert transaction %d: %w", tx.ID, err)
		}
	}
	return nil
}

// SumExpensesByCategory aggregates expense amounts per category over
// [start, end). Sums are computed in decimal arithmetic, never float.
func (q *Queries) SumExpensesByCategory(ctx context.Context, start, end time.Time) (map[int64]decimal.Decimal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT category_id, amount FROM transactions
		 WHERE type = ? AND date >= ? AND date < ?`,
		string(core.Expense), encodeTime(start), encodeTime(end))
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var (
			categoryID int64
			amount     string
		)
		if err := rows.Scan(&categoryID, &amount); err != nil {
			return nil, fmt.Errorf("scan expense sum: %w", err)
		}
		a, err := decodeDecimal(amount)
		if err != nil {
			return nil, fmt.Errorf("decode expense amount: %w", err)
		}
		sums[categoryID] = sums[categoryID].Add(a)
	}
	return sums, rows.Err()
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(r rowScanner) (core.Transaction, error) {
	var (
		tx           core.Transaction
		typ          string
		amount, date string
	)
	if err := r.Scan(&tx.ID, &typ, &amount, &tx.CategoryID, &tx.AccountID, &date, &tx.Note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("transaction: %w", core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Type = core.TransactionType(typ)
	a, err := decodeDecimal(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction amount: %w", err)
	}
	tx.Amount = a
	d, err := decodeTime(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction date: %w", err)
	}
	tx.Date = d
	return tx, nil
}

// ----------------------------------------------------------------------------
// Budgets
// ----------------------------------------------------------------------------

// UpsertBudget sets the monthly limit for a category, replacing any
// existing budget for that category rather than creating a duplicate.
func (q *Queries) UpsertBudget(ctx context.Context, categoryID int64, limit decimal.Decimal) (core.Budget, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO budgets (category_id, limit_amount) VALUES (?, ?)
		 ON CONFLICT(category_id) DO UPDATE SET limit_amount = excluded.limit_amount`,
		categoryID, limit.String())
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return q.GetBudgetByCategory(ctx, categoryID)
}

func (q *Queries) GetBudgetByCategory(ctx context.Context, categoryID int64) (core.Budget, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, category_id, limit_amount FROM budgets WHERE category_id = ?`, categoryID)
	return scanBudget(row)
}

func (q *Queries) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, category_id, limit_amount FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (q *Queries) DeleteBudget(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "budget", id)
}

func scanBudget(r rowScanner) (core.Budget, error) {
	var (
		b     core.Budget
		limit string
	)
	if err := r.Scan(&b.ID, &b.CategoryID, &limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, fmt.Errorf("budget: %w", core.ErrNotFound)
		}
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	l, err := decodeDecimal(limit)
	if err != nil {
		return core.Budget{}, fmt.Errorf("decode budget limit: %w", err)
	}
	b.Limit = l
	return b, nil
}

// ----------------------------------------------------------------------------
// Recurring templates
// ----------------------------------------------------------------------------

const recurringColumns = `id, type, amount, category_id, account_id, note,
	frequency, day_of_week, day_of_month, is_active, last_processed`

func (q *Queries) CreateRecurringTemplate(ctx context.Context, rt core.RecurringTemplate) (core.RecurringTemplate, error) {
	var dayOfWeek, dayOfMonth any
	switch rt.Frequency {
	case core.Weekly:
		dayOfWeek = rt.DayOfWeek
	case core.Monthly:
		dayOfMonth = rt.DayOfMonth
	}

	lastProcessed := ""
	if !rt.LastProcessed.IsZero() {
		lastProcessed = encodeTime(rt.LastProcessed)
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions
		 (type, amount, category_id, account_id, note, frequency, day_of_week, day_of_month, is_active, last_processed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rt.Type), rt.Amount.String(), rt.CategoryID, rt.AccountID, rt.Note,
		string(rt.Frequency), dayOfWeek, dayOfMonth, rt.Active, lastProcessed)
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("create recurring template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("create recurring template id: %w", err)
	}
	rt.ID = id
	return rt, nil
}

func (q *Queries) GetRecurringTemplate(ctx context.Context, id int64) (core.RecurringTemplate, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ?`, id)
	return scanRecurringTemplate(row)
}

func (q *Queries) ListRecurringTemplates(ctx context.Context) ([]core.RecurringTemplate, error) {
	return q.queryRecurringTemplates(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions ORDER BY id`)
}

// ListActiveRecurringTemplates returns the templates the recurrence
// engine scans on each run.
func (q *Queries) ListActiveRecurringTemplates(ctx context.Context) ([]core.RecurringTemplate, error) {
	return q.queryRecurringTemplates(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE is_active = 1 ORDER BY id`)
}

func (q *Queries) SetRecurringLastProcessed(ctx context.Context, id int64, lastProcessed time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET last_processed = ? WHERE id = ?`,
		encodeTime(lastProcessed), id)
	if err != nil {
		return fmt.Errorf("set last processed: %w", err)
	}
	return requireRow(res, "recurring template", id)
}

func (q *Queries) SetRecurringActive(ctx context.Context, id int64, active bool) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("set recurring active: %w", err)
	}
	return requireRow(res, "recurring template", id)
}

func (q *Queries) DeleteRecurringTemplate(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring template: %w", err)
	}
	return requireRow(res, "recurring template", id)
}

func (q *Queries) queryRecurringTemplates(ctx context.Context, query string, args ...any) ([]core.RecurringTemplate, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurringTemplate
	for rows.Next() {
		rt, err := scanRecurringTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, rt)
	}
	return templates, rows.Err()
}

func scanRecurringTemplate(r rowScanner) (core.RecurringTemplate, error) {
	var (
		rt                     core.RecurringTemplate
		typ, frequency         string
		amount, lastProcessed  string
		dayOfWeek, dayOfMonth  sql.NullInt64
	)
	err := r.Scan(&rt.ID, &typ, &amount, &rt.CategoryID, &rt.AccountID, &rt.Note,
		&frequency, &dayOfWeek, &dayOfMonth, &rt.Active, &lastProcessed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RecurringTemplate{}, fmt.Errorf("recurring template: %w", core.ErrNotFound)
		}
		return core.RecurringTemplate{}, fmt.Errorf("scan recurring template: %w", err)
	}
	rt.Type = core.TransactionType(typ)
	rt.Frequency = core.Frequency(frequency)
	if dayOfWeek.Valid {
		rt.DayOfWeek = int(dayOfWeek.Int64)
	}
	if dayOfMonth.Valid {
		rt.DayOfMonth = int(dayOfMonth.Int64)
	}
	a, err := decodeDecimal(amount)
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("decode recurring amount: %w", err)
	}
	rt.Amount = a
	lp, err := decodeTime(lastProcessed)
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("decode last processed: %w", err)
	}
	rt.LastProcessed = lp
	return rt, nil
}

// requireRow maps a zero-row mutation onto ErrNotFound.
func requireRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
	}
	return nil
}
