package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/config"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/repository/postgres"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance commands for the treasury ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(reconcileCmd())
	cmd.AddCommand(exportCmd())
	return cmd
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ledger holds the read side of the ledger for one command run
type ledger struct {
	pool           *pgxpool.Pool
	reconciliation *service.ReconciliationService
	export         *service.ExportService
}

func openLedger(ctx context.Context) (*ledger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	accountRepo := postgres.NewAccountRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	statistics := service.NewStatisticsService(entryRepo, accountRepo, categoryRepo)

	return &ledger{
		pool:           pool,
		reconciliation: service.NewReconciliationService(accountRepo, entryRepo, transferRepo),
		export:         service.NewExportService(entryRepo, statistics, cfg.Currency),
	}, nil
}

func (l *ledger) Close() {
	l.pool.Close()
}

func workspaceFlag(cmd *cobra.Command) (int32, error) {
	id, err := cmd.Flags().GetInt32("workspace")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("--workspace must be a positive workspace ID")
	}
	return id, nil
}
