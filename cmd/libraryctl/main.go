// Command libraryctl runs database migrations, loads the fixture catalog and
// bootstraps admin accounts.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryapi/internal/config"
	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "libraryctl",
		Short:        "Administration tool for the library API",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
			slog.SetDefault(logger.NewWithWriter(cmd.ErrOrStderr(), logger.Options{
				Level:       os.Getenv("LOG_LEVEL"),
				ServiceName: "libraryctl",
			}))
		},
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCreateAdminCmd())
	return root
}

// withPool connects using DB_DSN and hands the pool to fn.
func withPool(ctx context.Context, fn func(*pgxpool.Pool, config.DBConfig) error) error {
	cfg := config.LoadDB()
	pool, err := postgres.Open(ctx, cfg.DSN, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	slog.Debug("connected to database", "dsn", postgres.RedactDSN(cfg.DSN))
	return fn(pool, cfg)
}

func withStdDB(ctx context.Context, fn func(*sql.DB) error) error {
	return withPool(ctx, func(pool *pgxpool.Pool, _ config.DBConfig) error {
		db := postgres.StdDB(pool)
		defer db.Close()
		return fn(db)
	})
}
