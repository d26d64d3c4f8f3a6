package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var verifyRepair bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check stored balances against the transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyRepair {
			repaired, err := app.integrity.Repair(cmd.Context())
			if err != nil {
				return err
			}
			if len(repaired) == 0 {
				fmt.Println("All balances consistent, nothing to repair")
				return nil
			}
			for _, d := range repaired {
				fmt.Printf("Repaired %s (account %d): %s -> %s\n",
					d.Name, d.AccountID, formatMoney(d.Stored), formatMoney(d.Computed))
			}
			return nil
		}

		drifts, err := app.integrity.Verify(cmd.Context())
		if err != nil {
			return err
		}
		if len(drifts) == 0 {
			fmt.Println("All balances consistent")
			return nil
		}
		for _, d := range drifts {
			fmt.Printf("Drift on %s (account %d): stored %s, computed %s\n",
				d.Name, d.AccountID, formatMoney(d.Stored), formatMoney(d.Computed))
		}
		return fmt.Errorf("%d account(s) drifted, run verify --repair", len(drifts))
	},
}

var wipeYes bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all transactions and accounts",
	Long: `Wipe deletes every transaction and account. Categories, budgets and
recurring templates are kept. A default account is re-created on the
next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeYes {
			fmt.Print("This deletes all transactions and accounts. Type 'yes' to continue: ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}
		if err := app.store.Wipe(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Ledger wiped")
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show account balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := app.store.ListAccounts(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range accounts {
			fmt.Printf("%-5d %-20s %s\n", a.ID, a.Name, formatMoney(a.Balance))
		}

		total, err := app.queries.TotalBalance(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-26s %s\n", "total", formatMoney(total))

		recent, err := app.queries.Recent(cmd.Context(), app.cfg.RecentLimit)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Println("\nRecent transactions:")
			for _, tx := range recent {
				printTransaction(tx, "  ")
			}
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyRepair, "repair", false, "rewrite drifted balances to the recomputed values")
	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(verifyCmd, wipeCmd, balanceCmd)
}
