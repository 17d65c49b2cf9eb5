package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/lootlog/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or LOOT_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. The refresh token saved by `loot auth sheets`
// 4. Default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if p := v.GetString("sheets.service_account_path"); p != "" {
		config.ServiceAccountPath = ExpandPath(p)
	}
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	if name := v.GetString("sheets.spreadsheet_name"); name != "" {
		config.SpreadsheetName = name
	}
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))

	if config.ServiceAccountPath == "" {
		if p := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); p != "" {
			config.ServiceAccountPath = ExpandPath(p)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == sheets.DefaultSpreadsheetName {
		if name := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" {
			config.SpreadsheetName = name
		}
	}

	if config.RefreshToken == "" && config.ServiceAccountPath == "" && config.TokenFile != "" {
		if token, err := sheets.LoadToken(config.TokenFile); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
