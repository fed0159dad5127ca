package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, flush, err := loadMigrator()
			if err != nil {
				return err
			}
			defer flush()

			if err := m.up(cmd.Context()); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			return printVersion(cmd, m)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the given number of migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}

			m, flush, err := loadMigrator()
			if err != nil {
				return err
			}
			defer flush()

			if err := m.down(cmd.Context(), steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			return printVersion(cmd, m)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, flush, err := loadMigrator()
			if err != nil {
				return err
			}
			defer flush()
			return printVersion(cmd, m)
		},
	})

	return cmd
}

func loadMigrator() (migrator, func(), error) {
	cfg, flush, err := loadConfig()
	if err != nil {
		return migrator{}, nil, err
	}
	m, err := newMigrator(cfg.Database)
	if err != nil {
		flush()
		return migrator{}, nil, err
	}
	return m, flush, nil
}

func printVersion(cmd *cobra.Command, m migrator) error {
	v, err := m.version(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", m.location, v)
	return err
}
