package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only list recipes in this category")
}

func runList(cmd *cobra.Command, args []string) error {
	lib, _, err := loadLibrary(cmd.Context(), libraryFile)
	if err != nil {
		return err
	}

	var filters recipes.Filters
	if listCategory != "" {
		filters.CategoryID = &listCategory
	}

	list := lib.Recipes(filters)
	out := cmd.OutOrStdout()

	if jsonOutput {
		return writeJSON(out, list)
	}

	for _, r := range list {
		category := "-"
		if r.CategoryID != nil {
			category = *r.CategoryID
		}
		fmt.Fprintf(out, "%s  %s  %s\n",
			boldStyle.Render(r.Name),
			mutedStyle.Render(category),
			mutedStyle.Render(fmt.Sprintf("%d stage(s)", len(r.Stages))),
		)
	}
	return nil
}
