package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kasicka/internal/core"
)

var recurCmd = &cobra.Command{
	Use:   "recur",
	Short: "Manage recurring templates",
}

var recurListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := app.store.ListRecurringTemplates(cmd.Context())
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No recurring templates")
			return nil
		}
		for _, tpl := range templates {
			state := "active"
			if !tpl.Active {
				state = "paused"
			}
			last := "never"
			if !tpl.LastProcessed.IsZero() {
				last = tpl.LastProcessed.Format("2006-01-02")
			}
			fmt.Printf("%-5d %s %s %s on %s, last %s (%s)\n",
				tpl.ID, tpl.Type, formatMoney(tpl.Amount), tpl.Frequency,
				anchorLabel(tpl), last, state)
		}
		return nil
	},
}

var recurRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Process due recurring templates now",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := app.processor.ProcessDue(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Created %d transaction(s) from recurring templates\n", n)
		return nil
	},
}

func anchorLabel(tpl core.RecurringTemplate) string {
	if tpl.Frequency == core.Weekly {
		return time.Weekday(tpl.DayOfWeek).String()
	}
	return fmt.Sprintf("day %d", tpl.DayOfMonth)
}

func init() {
	recurCmd.AddCommand(recurListCmd, recurRunCmd)
	rootCmd.AddCommand(recurCmd)
}
