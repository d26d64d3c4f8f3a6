package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kasicka/internal/core"
	"kasicka/internal/services"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Manage transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := core.ParseAmount(txAddFlags.amount)
		if err != nil {
			return err
		}
		date := time.Now()
		if txAddFlags.date != "" {
			date, err = time.Parse("2006-01-02", txAddFlags.date)
			if err != nil {
				return fmt.Errorf("%w: date must be YYYY-MM-DD", core.ErrInvalidDate)
			}
		}

		var recurrence *services.RecurrenceSpec
		if txAddFlags.recur != "" {
			recurrence = &services.RecurrenceSpec{Frequency: core.Frequency(txAddFlags.recur)}
			switch recurrence.Frequency {
			case core.Weekly:
				recurrence.DayOfWeek = txAddFlags.on
			case core.Monthly:
				recurrence.DayOfMonth = txAddFlags.on
			}
		}

		created, err := app.transactions.Create(cmd.Context(), core.Transaction{
			Type:       core.TransactionType(txAddFlags.txType),
			Amount:     amount,
			CategoryID: txAddFlags.category,
			AccountID:  txAddFlags.account,
			Date:       date,
			Note:       txAddFlags.note,
		}, recurrence)
		if err != nil {
			return err
		}

		fmt.Printf("Created transaction %d: %s %s\n", created.ID, created.Type, formatMoney(created.Amount))
		if recurrence != nil {
			fmt.Printf("Recurring %s template registered\n", txAddFlags.recur)
		}
		return nil
	},
}

var txEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		tx, err := app.store.GetTransaction(cmd.Context(), id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("type") {
			tx.Type = core.TransactionType(txEditFlags.txType)
		}
		if flags.Changed("amount") {
			if tx.Amount, err = core.ParseAmount(txEditFlags.amount); err != nil {
				return err
			}
		}
		if flags.Changed("category") {
			tx.CategoryID = txEditFlags.category
		}
		if flags.Changed("account") {
			tx.AccountID = txEditFlags.account
		}
		if flags.Changed("date") {
			if tx.Date, err = time.Parse("2006-01-02", txEditFlags.date); err != nil {
				return fmt.Errorf("%w: date must be YYYY-MM-DD", core.ErrInvalidDate)
			}
		}
		if flags.Changed("note") {
			tx.Note = txEditFlags.note
		}

		if err := app.transactions.Update(cmd.Context(), tx); err != nil {
			return err
		}
		fmt.Printf("Updated transaction %d\n", id)
		return nil
	},
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transaction id %q", args[0])
		}
		if err := app.transactions.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted transaction %d\n", id)
		return nil
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := app.queries.List(cmd.Context(), services.Filter{
			Search:     txListFlags.search,
			Month:      txListFlags.month,
			CategoryID: txListFlags.category,
		})
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println("No transactions")
			return nil
		}

		if txListFlags.grouped {
			for _, group := range app.queries.GroupByDay(txs) {
				fmt.Println(group.Day)
				for _, tx := range group.Transactions {
					printTransaction(tx, "  ")
				}
			}
			return nil
		}
		for _, tx := range txs {
			printTransaction(tx, "")
		}
		return nil
	},
}

func printTransaction(tx core.Transaction, indent string) {
	sign := "-"
	if tx.Type == core.Income {
		sign = "+"
	}
	note := tx.Note
	if note != "" {
		note = "  " + note
	}
	fmt.Printf("%s%-5d %s  %s%s  (category %d)%s\n",
		indent, tx.ID, tx.Date.Format("2006-01-02"), sign, formatMoney(tx.Amount),
		tx.CategoryID, note)
}

var txAddFlags, txEditFlags struct {
	txType   string
	amount   string
	category int64
	account  int64
	date     string
	note     string
	recur    string
	on       int
}

var txListFlags struct {
	search   string
	month    string
	category int64
	grouped  bool
}

func init() {
	f := txAddCmd.Flags()
	f.StringVar(&txAddFlags.txType, "type", "expense", "expense or income")
	f.StringVar(&txAddFlags.amount, "amount", "", "amount, e.g. 250 or 1250,50")
	f.Int64Var(&txAddFlags.category, "category", 0, "category id")
	f.Int64Var(&txAddFlags.account, "account", 1, "account id")
	f.StringVar(&txAddFlags.date, "date", "", "date YYYY-MM-DD (default today)")
	f.StringVar(&txAddFlags.note, "note", "", "optional note")
	f.StringVar(&txAddFlags.recur, "recur", "", "also register a recurring template: weekly or monthly")
	f.IntVar(&txAddFlags.on, "on", 0, "recurrence anchor: weekday 0-6 for weekly, day 1-31 for monthly")
	cobra.CheckErr(txAddCmd.MarkFlagRequired("amount"))
	cobra.CheckErr(txAddCmd.MarkFlagRequired("category"))

	e := txEditCmd.Flags()
	e.StringVar(&txEditFlags.txType, "type", "", "expense or income")
	e.StringVar(&txEditFlags.amount, "amount", "", "amount")
	e.Int64Var(&txEditFlags.category, "category", 0, "category id")
	e.Int64Var(&txEditFlags.account, "account", 0, "account id")
	e.StringVar(&txEditFlags.date, "date", "", "date YYYY-MM-DD")
	e.StringVar(&txEditFlags.note, "note", "", "note")

	l := txListCmd.Flags()
	l.StringVar(&txListFlags.search, "search", "", "match note or category name")
	l.StringVar(&txListFlags.month, "month", "", "calendar month YYYY-MM")
	l.Int64Var(&txListFlags.category, "category", 0, "category id")
	l.BoolVar(&txListFlags.grouped, "group", false, "group output by day")

	txCmd.AddCommand(txAddCmd, txEditCmd, txRmCmd, txListCmd)
	rootCmd.AddCommand(txCmd)
}
