// Package main applies the recipe store schema to PostgreSQL.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/cookbook/internal/config"
	"github.com/JaimeStill/cookbook/internal/recipes"
)

const envDSN = "COOKBOOK_DB_DSN"

var dsn string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the cookbook PostgreSQL schema",
	Long: `migrate moves the recipe store schema up or down.

The connection comes from --dsn, then COOKBOOK_DB_DSN, then the
[database] section of config.toml and its COOKBOOK_DB_* overrides.

Examples:
  migrate up                 # Apply every pending migration
  migrate up 1               # Apply the next migration only
  migrate down 1             # Revert the latest migration
  migrate version            # Print the current version
  migrate force 1            # Mark version 1 clean after a failed run`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up [N]",
	Short: "Apply all or N pending migrations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseSteps(args)
		if err != nil {
			return err
		}
		return run(cmd, func(m *migrate.Migrate) error {
			if n == 0 {
				return m.Up()
			}
			return m.Steps(n)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down N",
	Short: "Revert the latest N migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseSteps(args)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("down requires a positive step count")
		}
		return run(cmd, func(m *migrate.Migrate) error {
			return m.Steps(-n)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := withMigrator(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", v, dirty)
			return nil
		})
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		return nil
	},
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return run(cmd, func(m *migrate.Migrate) error {
			return m.Force(v)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection URL")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(forceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run applies fn and reports the outcome as the command's result.
func run(cmd *cobra.Command, fn func(*migrate.Migrate) error) error {
	return report(cmd, withMigrator(fn))
}

func report(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Fprintln(cmd.OutOrStdout(), "no change")
		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s complete\n", cmd.Name())
	return nil
}

func withMigrator(fn func(*migrate.Migrate) error) error {
	url, err := resolveDSN()
	if err != nil {
		return err
	}

	source, err := iofs.New(recipes.Migrations, recipes.MigrationsDir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	return fn(m)
}

func resolveDSN() (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return "", fmt.Errorf("no --dsn or %s set: %w", envDSN, err)
	}
	return cfg.URL(), nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step count %q", args[0])
	}
	return n, nil
}
