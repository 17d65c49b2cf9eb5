package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored purchases, newest first",
		RunE:  runList,
	}

	cmd.Flags().IntP("limit", "n", 50, "Maximum number of purchases to show (0 for all)")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return common.NewUserError("--limit cannot be negative", nil)
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.ListTransactions(ctx, settings.OwnerID, limit)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	// Count separately so a limited list can say what it left out
	total, err := store.CountTransactions(ctx, settings.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to count purchases: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := cli.RenderTransactions(out, txns); err != nil {
		return err
	}
	if total > len(txns) {
		_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Showing %d of %d purchases.", len(txns), total)))
	}
	return nil
}
