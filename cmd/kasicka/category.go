package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kasicka/internal/core"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := app.transactions.CreateCategory(cmd.Context(), core.Category{
			Name:  args[0],
			Color: categoryFlags.color,
			Icon:  core.Icon(categoryFlags.icon).Normalize(),
			Kind:  core.TransactionType(categoryFlags.kind),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created category %d: %s %s\n", created.ID, created.Icon.Emoji(), created.Name)
		return nil
	},
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		cat, err := app.store.GetCategory(cmd.Context(), id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			cat.Name = categoryEditFlags.name
		}
		if flags.Changed("color") {
			cat.Color = categoryEditFlags.color
		}
		if flags.Changed("icon") {
			cat.Icon = core.Icon(categoryEditFlags.icon).Normalize()
		}
		if flags.Changed("kind") {
			cat.Kind = core.TransactionType(categoryEditFlags.kind)
		}

		if err := app.transactions.UpdateCategory(cmd.Context(), cat); err != nil {
			return err
		}
		fmt.Printf("Updated category %d\n", id)
		return nil
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}
		if err := app.transactions.DeleteCategory(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted category %d\n", id)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := app.store.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%-5d %s %-15s %-7s %s\n", c.ID, c.Icon.Emoji(), c.Name, c.Kind, c.Color)
		}
		return nil
	},
}

var categoryFlags, categoryEditFlags struct {
	name  string
	color string
	icon  string
	kind  string
}

func init() {
	f := categoryAddCmd.Flags()
	f.StringVar(&categoryFlags.color, "color", "#808080", "hex color")
	f.StringVar(&categoryFlags.icon, "icon", "", "icon name, e.g. Utensils")
	f.StringVar(&categoryFlags.kind, "kind", "expense", "expense or income")

	e := categoryEditCmd.Flags()
	e.StringVar(&categoryEditFlags.name, "name", "", "name")
	e.StringVar(&categoryEditFlags.color, "color", "", "hex color")
	e.StringVar(&categoryEditFlags.icon, "icon", "", "icon name")
	e.StringVar(&categoryEditFlags.kind, "kind", "", "expense or income")

	categoryCmd.AddCommand(categoryAddCmd, categoryEditCmd, categoryRmCmd, categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}
