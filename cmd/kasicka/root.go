package main

import (
	"context"

	"github.com/spf13/cobra"

	"kasicka/internal/cli"
	"kasicka/internal/config"
	"kasicka/internal/services"
	"kasicka/internal/storage"
)

// app holds the wired services for the lifetime of one command.
var app struct {
	cfg          *config.Config
	store        *storage.Store
	transactions *services.TransactionService
	budgets      *services.BudgetService
	queries      *services.QueryService
	backup       *services.BackupService
	integrity    *services.IntegrityService
	processor    *services.RecurringProcessor
}

var rootCmd = &cobra.Command{
	Use:   "kasicka",
	Short: "Personal finance ledger",
	Long: `kasicka keeps a personal finance ledger in a local SQLite database:
transactions with running account balances, recurring templates,
monthly category budgets and JSON backups.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.store != nil {
			app.store.Close()
		}
	},
}

func initApp(ctx context.Context) {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	app.cfg = cli.ValidateConfig(logger, cfg)
	app.store = cli.InitStore(logger, app.cfg.SQLiteDBPath)

	// The recurrence pass runs while the rest of the services are
	// wired, and is joined before the command body sees them.
	app.transactions = services.NewTransactionService(app.store)
	app.processor = services.NewRecurringProcessor(app.store, app.transactions)
	join := func() {}
	if app.cfg.ProcessRecurringOnStart {
		join = cli.StartRecurrence(ctx, app.processor)
	}

	app.budgets = services.NewBudgetService(app.store)
	app.queries = services.NewQueryService(app.store)
	app.backup = services.NewBackupService(app.store)
	app.integrity = services.NewIntegrityService(app.store)

	join()
}
