package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/domain"
	"github.com/dafibh/tesouraria/tesouraria-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write ledger reports as CSV",
	}
	cmd.PersistentFlags().Int32("workspace", 0, "workspace ID (required)")
	cmd.PersistentFlags().StringP("output", "o", "-", "output file, - for stdout")
	_ = cmd.MarkPersistentFlagRequired("workspace")

	entries := &cobra.Command{
		Use:   "entries",
		Short: "Export entries, newest first",
		Args:  cobra.NoArgs,
		RunE:  runExportEntries,
	}
	entries.Flags().String("start", "", "first date, YYYY-MM-DD")
	entries.Flags().String("end", "", "last date, YYYY-MM-DD")
	entries.Flags().String("status", "", "pending, confirmed or cancelled")
	entries.Flags().Int32("account", 0, "only entries of this account")

	now := time.Now().UTC()
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Export a month's confirmed totals per category",
		Args:  cobra.NoArgs,
		RunE:  runExportSummary,
	}
	summary.Flags().Int("year", now.Year(), "year")
	summary.Flags().Int("month", int(now.Month()), "month, 1-12")

	cmd.AddCommand(entries, summary)
	return cmd
}

func runExportEntries(cmd *cobra.Command, _ []string) error {
	workspaceID, err := workspaceFlag(cmd)
	if err != nil {
		return err
	}

	filters := &domain.EntryFilters{}
	for _, f := range []struct {
		flag string
		dst  **time.Time
	}{{"start", &filters.StartDate}, {"end", &filters.EndDate}} {
		raw, _ := cmd.Flags().GetString(f.flag)
		if raw == "" {
			continue
		}
		d, err := util.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.flag, err)
		}
		*f.dst = &d
	}
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		status := domain.EntryStatus(raw)
		filters.Status = &status
	}
	if account, _ := cmd.Flags().GetInt32("account"); account > 0 {
		filters.AccountID = &account
	}

	l, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	return withOutput(cmd, func(w io.Writer) error {
		count, err := l.export.ExportEntriesCSV(cmd.Context(), workspaceID, filters, w)
		if err != nil {
			return err
		}
		log.Info().Int32("workspace_id", workspaceID).Int("rows", count).Msg("Entries exported")
		return nil
	})
}

func runExportSummary(cmd *cobra.Command, _ []string) error {
	workspaceID, err := workspaceFlag(cmd)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	if err := util.ValidateMonth(year, month); err != nil {
		return err
	}

	l, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	return withOutput(cmd, func(w io.Writer) error {
		return l.export.ExportMonthlySummaryCSV(cmd.Context(), workspaceID, year, month, w)
	})
}

// withOutput runs write against stdout or the --output file. A failed write
// removes the partial file.
func withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
