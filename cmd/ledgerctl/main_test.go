package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dafibh/tesouraria/tesouraria-backend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("command %q not found under %q", name, parent.Name())
	return nil
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()

	migrate := findCommand(t, root, "migrate")
	findCommand(t, migrate, "up")
	down := findCommand(t, migrate, "down")
	assert.Equal(t, "1", down.Flag("steps").DefValue)

	reconcile := findCommand(t, root, "reconcile")
	assert.NotNil(t, reconcile.Flag("json"))

	export := findCommand(t, root, "export")
	findCommand(t, export, "entries")
	findCommand(t, export, "summary")
	assert.Equal(t, "-", export.PersistentFlags().Lookup("output").DefValue)
}

func TestReconcile_RequiresWorkspace(t *testing.T) {
	root := rootCmd()
	root.SetArgs([]string{"reconcile"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace")
}

func TestWorkspaceFlag_RejectsNonPositive(t *testing.T) {
	cmd := reconcileCmd()
	require.NoError(t, cmd.Flags().Set("workspace", "0"))

	_, err := workspaceFlag(cmd)
	assert.Error(t, err)
}

func TestExportSummary_InvalidMonthBeforeConnecting(t *testing.T) {
	root := rootCmd()
	root.SetArgs([]string{"export", "summary", "--workspace", "1", "--month", "13"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month")
}

func TestPrintReconciliation(t *testing.T) {
	report := &service.ReconciliationReport{
		Accounts: []*service.AccountReconciliation{
			{AccountID: 1, Name: "Caixa", Expected: decimal.NewFromInt(100), Actual: decimal.NewFromInt(100), Balanced: true},
			{AccountID: 2, Name: "Banco", Expected: decimal.NewFromInt(50), Actual: decimal.NewFromInt(40), Difference: decimal.NewFromInt(-10)},
		},
	}

	var out bytes.Buffer
	require.NoError(t, printReconciliation(&out, report))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "100.00")
	assert.Contains(t, lines[2], "-10.00 !")
}

func TestWithOutput_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	cmd := exportCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--output", path}))

	failure := errors.New("query failed")
	err := withOutput(cmd, func(w io.Writer) error {
		_, _ = w.Write([]byte("date,kind\n"))
		return failure
	})
	assert.ErrorIs(t, err, failure)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
