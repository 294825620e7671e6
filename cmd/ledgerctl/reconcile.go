package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errUnbalanced = errors.New("ledger is out of balance")

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored account balances with the ledger history",
		Long: `Recomputes every account's balance from its initial balance, confirmed
entries and transfers, and compares it with the stored balance.
Exits non-zero when any account differs.`,
		Args: cobra.NoArgs,
		RunE: runReconcile,
	}
	cmd.Flags().Int32("workspace", 0, "workspace ID (required)")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	workspaceID, err := workspaceFlag(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	l, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	report, err := l.reconciliation.Reconcile(cmd.Context(), workspaceID)
	if err != nil {
		return fmt.Errorf("reconcile workspace %d: %w", workspaceID, err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if err := printReconciliation(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.Balanced {
		log.Warn().Int32("workspace_id", workspaceID).Msg("Reconciliation found differences")
		return errUnbalanced
	}
	return nil
}

func printReconciliation(w io.Writer, report *service.ReconciliationReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tACCOUNT\tEXPECTED\tACTUAL\tDIFFERENCE\t")
	for _, a := range report.Accounts {
		marker := ""
		if !a.Balanced {
			marker = " !"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\t\n",
			a.AccountID, a.Name,
			a.Expected.StringFixed(2), a.Actual.StringFixed(2), a.Difference.StringFixed(2), marker)
	}
	return tw.Flush()
}
