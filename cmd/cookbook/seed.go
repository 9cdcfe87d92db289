package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/transfer"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in recipes as a library export",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	now := time.Now()

	system, err := recipes.SystemRecipes(now)
	if err != nil {
		return err
	}

	data, err := transfer.Encode(transfer.Export(system, now))
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
