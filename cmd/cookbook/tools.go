package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cookbook/internal/template"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool stage catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, template.Tools())
		}
		for _, t := range template.Tools() {
			fmt.Fprintf(out, "%-18s %s\n", boldStyle.Render(t.ID), mutedStyle.Render(t.Description))
		}
		return nil
	},
}
