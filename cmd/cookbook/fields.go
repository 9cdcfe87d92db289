package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <recipe>",
	Short: "Show the input fields of a recipe",
	Long: `Show the deduplicated input fields of a recipe. A field used in several
stages is listed once.`,
	Args: cobra.ExactArgs(1),
	RunE: runFields,
}

func runFields(cmd *cobra.Command, args []string) error {
	lib, _, err := loadLibrary(cmd.Context(), libraryFile)
	if err != nil {
		return err
	}

	r, err := findRecipe(lib, args[0])
	if err != nil {
		return err
	}

	fields := r.Fields()
	out := cmd.OutOrStdout()

	if jsonOutput {
		return writeJSON(out, fields)
	}

	for _, f := range fields {
		line := fmt.Sprintf("%-24s %-8s", f.Name, f.Type)
		if f.Required {
			line += " " + boldStyle.Render("required")
		}
		if len(f.Options) > 0 {
			line += " " + mutedStyle.Render("["+strings.Join(f.Options, ", ")+"]")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
