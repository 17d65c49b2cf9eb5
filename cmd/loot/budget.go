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
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/model"
	"github.com/Veraticus/lootlog/internal/service"
	"github.com/Veraticus/lootlog/internal/stats"
	"github.com/Veraticus/lootlog/internal/tui/components"
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

const monthLayout = "2006-01"

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set and check a monthly spending budget",
	}

	cmd.PersistentFlags().String("month", "", "Month as YYYY-MM (default: current month)")

	cmd.AddCommand(&cobra.Command{
		Use:   "set AMOUNT",
		Short: "Set the budget in EUR for a month",
		Args:  cobra.ExactArgs(1),
		RunE:  runBudgetSet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show spending against the month's budget",
		Args:  cobra.NoArgs,
		RunE:  runBudgetShow,
	})

	return cmd
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	period, err := budgetMonth(cmd, time.Now())
	if err != nil {
		return err
	}

	// Amounts follow the same rules as imported prices
	amount, err := importer.ParsePrice(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a valid amount", args[0]), err)
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

	budget := model.Budget{
		Year:     period.Year(),
		Month:    period.Month(),
		Amount:   amount,
		Currency: model.BudgetCurrency,
	}
	if err := store.SetBudget(ctx, settings.OwnerID, budget); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Budget for %s %d set to %s €.", budget.Month, budget.Year, amount.StringFixed(2))))
	// Show where the month stands right away
	return showBudget(ctx, store, settings, period, cmd.OutOrStdout())
}

func runBudgetShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	period, err := budgetMonth(cmd, time.Now())
	if err != nil {
		return err
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

	return showBudget(ctx, store, settings, period, cmd.OutOrStdout())
}

// showBudget prints spending against the budget of period's month.
func showBudget(ctx context.Context, store service.Storage, settings *config.Settings, period time.Time, out io.Writer) error {
	budget, err := store.GetBudget(ctx, settings.OwnerID, period.Year(), period.Month())
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf(
			"No budget set for %s %d. Set one with: loot budget set AMOUNT", period.Month(), period.Year()), err)
	}
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}

	txns, err := store.ListTransactions(ctx, settings.OwnerID, 0)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	panel := components.NewStatsPanelModel(themes.Default).
		SetBudget(stats.CheckBudget(*budget, txns, converter(settings)))
	_, err = fmt.Fprintln(out, panel.View())
	return err
}

// budgetMonth reads --month, defaulting to the month of now.
func budgetMonth(cmd *cobra.Command, now time.Time) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("month")
	if raw == "" {
		return now, nil
	}
	t, err := time.Parse(monthLayout, raw)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("--month must look like 2024-03, got %q", raw), err)
	}
	return t, nil
}

// converter returns the configured currency converter.
func converter(settings *config.Settings) *stats.Converter {
	conv, err := stats.NewConverter(settings.USDRate)
	if err != nil {
		return stats.DefaultConverter()
	}
	return conv
}
