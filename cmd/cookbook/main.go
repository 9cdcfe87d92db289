// Package main provides the cookbook CLI for inspecting and rendering recipe
// libraries without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Global flags
var (
	jsonOutput  bool
	verbose     bool
	libraryFile string
	showAll     bool
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	})
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	boldStyle = lipgloss.NewStyle().Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "cookbook",
	Short: "Inspect, check, and render prompt recipes",
	Long: `cookbook works with recipe libraries offline.

Without --file the built-in system recipes are used. With --file the
recipes of a library export are loaded through the same import pipeline
the server uses.

Examples:
  cookbook list                                  # List recipes
  cookbook fields "Cinematic Shot"               # Show a recipe's input fields
  cookbook render "Cinematic Shot" --set SUBJECT="a lighthouse" --set SHOT_TYPE="wide shot"
  cookbook check -f recipe-library.json          # Dry-run an import
  cookbook seed > system-recipes.json            # Write the built-in recipes as an export`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&libraryFile, "file", "f", "", "Library export file (defaults to the built-in recipes)")
	rootCmd.PersistentFlags().BoolVar(&showAll, "all", false, "Include system-only recipes")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
