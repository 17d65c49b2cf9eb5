package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lootlog/internal/cli"
	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/config"
	"github.com/Veraticus/lootlog/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google sign-in URL to open in your browser
2. Wait for the redirect on a local port
3. Save the token to sheets.token_file for 'loot export sheets'

You'll need to run this once to set up Google Sheets integration.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Get OAuth2 config
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	// Check environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return common.NewUserError("OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret", common.ErrMissingConfig)
	}

	// Determine token file location
	tokenFile := config.ExpandPath(viper.GetString("sheets.token_file"))
	slog.Info("starting Google Sheets authentication", "token_file", tokenFile)

	out := cmd.OutOrStdout()
	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		OpenURL: func(url string) {
			_, _ = fmt.Fprintln(out, cli.FormatPrompt("Open this URL in your browser to authorize loot:"))
			_, _ = fmt.Fprintln(out, url)
		},
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Without a refresh token the saved token expires within the hour
	if token.RefreshToken == "" {
		_, _ = fmt.Fprintln(out, cli.FormatWarning("Google returned no refresh token; you may need to authenticate again later."))
	}
	_, _ = fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authentication saved to "+tokenFile))
	return nil
}
