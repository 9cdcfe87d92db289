package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renderValues []string

var renderCmd = &cobra.Command{
	Use:   "render <recipe>",
	Short: "Render a recipe's stage prompts",
	Long: `Render every stage prompt of a recipe from NAME=value pairs. Missing
required fields are reported and the command fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderValues, "set", nil, "Field value as NAME=value (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	lib, _, err := loadLibrary(cmd.Context(), libraryFile)
	if err != nil {
		return err
	}

	r, err := findRecipe(lib, args[0])
	if err != nil {
		return err
	}

	values, err := parseValues(renderValues, r.Fields())
	if err != nil {
		return err
	}

	result, err := lib.Preview(r.ID, values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else if result.Validation.IsValid {
		for i, prompt := range result.Prompts.Prompts {
			stage := r.Stages[i]
			if stage.IsTool() {
				fmt.Fprintf(out, "%s %s\n", mutedStyle.Render(fmt.Sprintf("[%d] tool", i)), stage.ToolID)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", passStyle.Render(fmt.Sprintf("[%d]", i)), prompt)
		}
	}

	if !result.Validation.IsValid {
		return fmt.Errorf("missing required fields: %s", strings.Join(result.Validation.MissingFields, ", "))
	}
	return nil
}
