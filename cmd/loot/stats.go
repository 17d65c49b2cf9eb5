package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/service"
	"github.com/Veraticus/lootlog/internal/stats"
	"github.com/Veraticus/lootlog/internal/tui/components"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show spending totals and this month against last month",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	return showStats(ctx, store, settings, time.Now(), cmd.OutOrStdout())
}

// showStats prints the overview and, when one is set, this month's budget.
func showStats(ctx context.Context, store service.Storage, settings *config.Settings, now time.Time, out io.Writer) error {
	txns, err := store.ListTransactions(ctx, settings.OwnerID, 0)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}
	if len(txns) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatInfo("No purchases yet. Import some with: loot import FILE"))
		return err
	}

	conv := converter(settings)
	panel := components.NewStatsPanelModel(themes.Default).
		SetOverview(stats.Compute(txns, now, conv))

	// Add this month's budget when one is set
	budget, err := store.GetBudget(ctx, settings.OwnerID, now.Year(), now.Month())
	switch {
	case err == nil:
		panel = panel.SetBudget(stats.CheckBudget(*budget, txns, conv))
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("failed to load budget: %w", err)
	}

	_, err = fmt.Fprintln(out, panel.View())
	return err
}
