package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/eventboard/internal/persistence/sqlite/migration"
)

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back or inspect the embedded schema migrations for EVENTBOARD_SQLITE_DSN.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down <steps>",
		Short: "Roll back the given number of migrations",
		Args:  cobra.ExactArgs(1),
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE:  runMigrateVersion,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(runner *migration.Runner) error {
		if err := runner.Up(cmd.Context()); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		cmd.Println("Migrations completed successfully")
		return nil
	})
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps <= 0 {
		return fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return withMigrator(cmd, func(runner *migration.Runner) error {
		if err := runner.Down(cmd.Context(), steps); err != nil {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		cmd.Printf("Rolled back %d migration(s)\n", steps)
		return nil
	})
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(runner *migration.Runner) error {
		current, dirty, err := runner.Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if dirty {
			cmd.Printf("%d (dirty)\n", current)
			return nil
		}
		cmd.Println(current)
		return nil
	})
}

// withMigrator opens the configured store, hands its migration runner to fn and
// closes the store afterwards. Logs go to stderr so stdout carries only results.
func withMigrator(cmd *cobra.Command, fn func(runner *migration.Runner) error) error {
	boot, err := loadBootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	store, err := boot.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			boot.logger.Error("failed to close storage", "error", cerr)
		}
	}()
	return fn(store.Migrator())
}
