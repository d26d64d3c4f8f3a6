package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kasicka/internal/core"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage monthly category budgets",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <category-id> <limit>",
	Short: "Set the monthly limit for a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		limit, err := core.ParseAmount(args[1])
		if err != nil {
			return err
		}
		b, err := app.budgets.SetLimit(cmd.Context(), categoryID, limit)
		if err != nil {
			return err
		}
		fmt.Printf("Budget %d: category %d limited to %s per month\n",
			b.ID, b.CategoryID, formatMoney(b.Limit))
		return nil
	},
}

var budgetRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid budget id %q", args[0])
		}
		if err := app.budgets.Remove(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted budget %d\n", id)
		return nil
	},
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show budget usage for the current month",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		statuses, err := app.budgets.Statuses(cmd.Context(), now)
		if err != nil {
			return err
		}
		totals, err := app.budgets.Totals(cmd.Context(), now)
		if err != nil {
			return err
		}

		fmt.Printf("Month %s: income %s, expenses %s, net %s\n\n",
			now.UTC().Format("2006-01"),
			formatMoney(totals.Income), formatMoney(totals.Expense), formatMoney(totals.Net))

		if len(statuses) == 0 {
			fmt.Println("No budgets configured")
			return nil
		}
		for _, st := range statuses {
			line := fmt.Sprintf("%-15s %s of %s (%d%%)",
				st.Category.Name, formatMoney(st.Spent), formatMoney(st.Budget.Limit), st.Percentage)
			if st.OverBudget {
				line += fmt.Sprintf("  OVER by %s", formatMoney(st.Overage))
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd, budgetRmCmd, budgetStatusCmd)
	rootCmd.AddCommand(budgetCmd)
}
