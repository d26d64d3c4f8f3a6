package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kasicka/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the ledger to a JSON backup",
	Long: `Export writes transactions, categories and accounts as JSON.
Without an argument the conventional dated filename is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		path := services.ExportFilename(now)
		if len(args) == 1 {
			path = args[0]
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create backup file: %w", err)
		}
		defer f.Close()

		if err := app.backup.Export(cmd.Context(), f, now); err != nil {
			return err
		}
		fmt.Printf("Exported ledger to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON backup",
	Long: `Import merges a backup into the ledger: records with known ids are
overwritten, new ids inserted, everything else left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup file: %w", err)
		}
		defer f.Close()

		if err := app.backup.Import(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Printf("Imported backup from %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
