package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run an import of a library export",
	Long: `Run a library export through the import pipeline and report which
recipes would be imported and why the others would be skipped.

Examples:
  cookbook check -f recipe-library.json
  cookbook check -f recipe-library.json --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if libraryFile == "" {
		return errors.New("check requires --file")
	}

	_, result, err := loadLibrary(cmd.Context(), libraryFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		return writeJSON(out, result)
	}

	for _, r := range result.Recipes {
		fmt.Fprintf(out, "%s %s\n", passStyle.Render("✓"), r.Name)
	}
	for _, s := range result.Skips {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", s.Index)
		}
		fmt.Fprintf(out, "%s %s %s\n", failStyle.Render("✗"), name, mutedStyle.Render(s.Reason))
	}
	fmt.Fprintf(out, "\n%d imported, %d skipped\n", result.Imported, result.Skipped)
	return nil
}
