package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/export"
	"github.com/Veraticus/lootlog/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored purchases",
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export purchases as CSV",
		Long: `Export every stored purchase as CSV.

The file uses the same column names import understands, so it can be
imported again as is.`,
		RunE: runExportCSV,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func runExportCSV(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.ListTransactions(ctx, settings.OwnerID, 0)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	// No --output means stdout
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return export.WriteCSV(cmd.OutOrStdout(), txns)
	}

	f, err := os.Create(config.ExpandPath(output)) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := export.WriteCSV(f, txns); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	slog.Info("exported purchases", "count", len(txns), "path", output)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d purchases to %s", len(txns), output)))
	return nil
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export purchases to Google Sheets",
		Long: `Export every stored purchase to a Google spreadsheet.

The spreadsheet gets a Purchases tab and a Summary tab with spend per
platform and currency. Both are rewritten on every export.

Authenticate first with 'loot auth sheets', or configure a service account
with sheets.service_account_path.`,
		RunE: runExportSheets,
	}

	cmd.Flags().String("spreadsheet-id", "", "Existing spreadsheet to write to (overrides config)")

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	// Get Sheets configuration
	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured, run 'loot auth sheets' first", err)
	}
	// Override with flag if provided
	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		sheetsConfig.SpreadsheetID = id
	}

	store, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.ListTransactions(ctx, settings.OwnerID, 0)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	// Create Sheets writer
	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return err
	}

	spreadsheetID, err := writer.Export(ctx, txns)
	if err != nil {
		if errors.Is(err, sheets.ErrNoTransactions) {
			return common.NewUserError("No purchases to export", err)
		}
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d purchases to %s", len(txns), spreadsheetURL(spreadsheetID))))
	return nil
}

func spreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}
