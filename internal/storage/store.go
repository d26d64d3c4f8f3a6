// Package storage implements the durable ledger store on SQLite.
//
// The store owns every persisted entity (accounts, categories,
// transactions, budgets, recurring templates); aggregates and filtered
// views are ephemeral projections built elsewhere and never persisted.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kasicka/internal/core"

	_ "modernc.org/sqlite"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same query set
// runs standalone or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite-backed ledger store. All single mutations are
// atomically scoped; multi-collection sequences (balance upkeep paired
// with a transaction write) run through InTx.
type Store struct {
	db *sql.DB
	*Queries
}

// Open opens (or creates) the database at dbPath, applies pending
// migrations and seeds the default data when the store is empty.
// Failures to open are wrapped in core.ErrStorageUnavailable: nothing
// works without the store, callers treat this as fatal.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", core.ErrStorageUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStorageUnavailable, err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	s := &Store{
		db:      db,
		Queries: &Queries{db: db},
	}

	if err := s.seedDefaults(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InTx runs fn against a transaction-scoped query set. The reverse-
// then-apply and create-plus-balance-update sequences of the balance
// keeper go through here so a crash mid-sequence cannot leave the
// ledger partially updated.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Wipe deletes all transactions and accounts (the clear-all-data
// operation). Re-seeding happens on the next Open of an empty store;
// it is the store's responsibility, not the caller's.
func (s *Store) Wipe(ctx context.Context) error {
	return s.InTx(ctx, func(q *Queries) error {
		if _, err := q.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("wipe transactions: %w", err)
		}
		if _, err := q.db.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
			return fmt.Errorf("wipe accounts: %w", err)
		}
		slog.InfoContext(ctx, "All transactions and accounts wiped")
		return nil
	})
}
