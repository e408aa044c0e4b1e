package main

import (
	"database/sql"
	"fmt"
	"os"

	"libraryapi/db/migrations"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

// migrationsDir is where "migrate create" writes new files. Applying migrations
// always uses the embedded set.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStdDB(cmd.Context(), func(db *sql.DB) error {
					if err := migrations.Up(cmd.Context(), db); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStdDB(cmd.Context(), func(db *sql.DB) error {
					if err := migrations.Down(cmd.Context(), db); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied state of each migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStdDB(cmd.Context(), func(db *sql.DB) error {
					return migrations.Status(cmd.Context(), db)
				})
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := goose.Create(nil, migrationsDir(), args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				return nil
			},
		},
	)
	return cmd
}
