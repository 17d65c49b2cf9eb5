package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/lootlog/internal/model"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID:      "test-client",
				ClientSecret:  "test-secret",
				RefreshToken:  "test-token",
				BatchSize:     100,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
			wantErr: false,
		},
		{
			name: "valid service account config",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
			wantErr: false,
		},
		{
			name: "missing auth",
			config: Config{
				BatchSize:     100,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "multiple auth methods",
			config: Config{
				ClientID:           "test-client",
				ClientSecret:       "test-secret",
				RefreshToken:       "test-token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
			wantErr: true,
			errMsg:  "multiple authentication methods configured",
		},
		{
			name: "invalid batch size",
			config: Config{
				ClientID:      "test-client",
				ClientSecret:  "test-secret",
				RefreshToken:  "test-token",
				BatchSize:     0,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
		{
			name: "negative retry attempts",
			config: Config{
				ClientID:      "test-client",
				ClientSecret:  "test-secret",
				RefreshToken:  "test-token",
				BatchSize:     100,
				RetryAttempts: -1,
				RetryDelay:    time.Second,
			},
			wantErr: true,
			errMsg:  "retry attempts cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	envKeys := []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	}

	tests := []struct {
		envVars map[string]string
		check   func(t *testing.T, c *Config)
		name    string
		wantErr bool
	}{
		{
			name: "oauth credentials",
			envVars: map[string]string{
				"GOOGLE_SHEETS_CLIENT_ID":        "test-client",
				"GOOGLE_SHEETS_CLIENT_SECRET":    "test-secret",
				"GOOGLE_SHEETS_REFRESH_TOKEN":    "test-token",
				"GOOGLE_SHEETS_SPREADSHEET_ID":   "test-id",
				"GOOGLE_SHEETS_SPREADSHEET_NAME": "My Games",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "test-client", c.ClientID)
				assert.Equal(t, "test-secret", c.ClientSecret)
				assert.Equal(t, "test-token", c.RefreshToken)
				assert.Equal(t, "test-id", c.SpreadsheetID)
				assert.Equal(t, "My Games", c.SpreadsheetName)
			},
		},
		{
			name: "service account path",
			envVars: map[string]string{
				"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": "/path/to/key.json",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "/path/to/key.json", c.ServiceAccountPath)
				assert.Equal(t, DefaultSpreadsheetName, c.SpreadsheetName)
			},
		},
		{
			name:    "missing credentials",
			envVars: map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envKeys {
				t.Setenv(key, tt.envVars[key])
			}

			config := DefaultConfig()
			err := config.LoadFromEnv()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, &config)
		})
	}
}

func purchase(title string, platform model.Platform, currency model.Currency, price, date string) model.Transaction {
	txn := model.DefaultTransaction(date)
	txn.Title = title
	txn.Platform = platform
	txn.Currency = currency
	txn.Price = decimal.RequireFromString(price)
	return txn
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		purchase("Hades", model.PlatformSwitch, model.CurrencyUSD, "24.99", "2024-09-17"),
		purchase("Celeste", model.PlatformPC, model.CurrencyEUR, "19.99", "2024-01-05"),
		purchase("Balatro", model.PlatformPC, model.CurrencyEUR, "13.99", "2024-11-02"),
	}
}

func TestBuildTabData(t *testing.T) {
	data := buildTabData(sampleTransactions())

	require.Len(t, data.Purchases, 4)
	assert.Equal(t, "Name", data.Purchases[0][0])
	assert.Equal(t, "Balatro", data.Purchases[1][0])
	assert.Equal(t, "Hades", data.Purchases[2][0])
	assert.Equal(t, "Celeste", data.Purchases[3][0])
	assert.InDelta(t, 13.99, data.Purchases[1][2], 0.001)
	assert.Equal(t, "2024-11-02", data.Purchases[1][8])

	assert.Equal(t, [][]any{
		{"Platform", "Currency", "Purchases", "Total"},
		{"PC", "EUR", 2, 33.98},
		{"Switch", "USD", 1, 24.99},
	}, data.Summary)
}

type fakeSpreadsheetAPI struct {
	existing   *sheets.Spreadsheet
	updateErrs []error
	updates    map[string][][]any
	cleared    []string
	batches    [][]*sheets.Request
	created    int
	mu         sync.Mutex
}

func (f *fakeSpreadsheetAPI) Get(_ context.Context, id string) (*sheets.Spreadsheet, error) {
	if f.existing == nil || f.existing.SpreadsheetId != id {
		return nil, errors.New("not found")
	}
	return f.existing, nil
}

func (f *fakeSpreadsheetAPI) Create(_ context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	for i, sheet := range spreadsheet.Sheets {
		sheet.Properties.SheetId = int64(100 + i)
	}
	spreadsheet.SpreadsheetId = "new-sheet"
	return spreadsheet, nil
}

func (f *fakeSpreadsheetAPI) BatchUpdate(_ context.Context, _ string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, requests)

	resp := &sheets.BatchUpdateSpreadsheetResponse{}
	for i, req := range requests {
		reply := &sheets.Response{}
		if req.AddSheet != nil {
			reply.AddSheet = &sheets.AddSheetResponse{
				Properties: &sheets.SheetProperties{Title: req.AddSheet.Properties.Title, SheetId: int64(200 + i)},
			}
		}
		resp.Replies = append(resp.Replies, reply)
	}
	return resp, nil
}

func (f *fakeSpreadsheetAPI) Clear(_ context.Context, _ string, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, rng)
	return nil
}

func (f *fakeSpreadsheetAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	if f.updates == nil {
		f.updates = make(map[string][][]any)
	}
	f.updates[rng] = values
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExportCreatesSpreadsheet(t *testing.T) {
	api := &fakeSpreadsheetAPI{}
	w := newWriter(api, testConfig(), discardLogger())

	id, err := w.Export(context.Background(), sampleTransactions())
	require.NoError(t, err)
	assert.Equal(t, "new-sheet", id)
	assert.Equal(t, 1, api.created)

	assert.Equal(t, []string{"Purchases!A:Z", "Summary!A:Z"}, api.cleared)
	require.Contains(t, api.updates, "Purchases!A1")
	assert.Len(t, api.updates["Purchases!A1"], 4)
	require.Contains(t, api.updates, "Summary!A1")
	assert.Len(t, api.updates["Summary!A1"], 3)

	// Only the formatting batch; both tabs already existed.
	require.Len(t, api.batches, 1)
	assert.Len(t, api.batches[0], 8)
	assert.Equal(t, int64(100), api.batches[0][0].RepeatCell.Range.SheetId)
}

func TestExportAddsMissingTabs(t *testing.T) {
	api := &fakeSpreadsheetAPI{
		existing: &sheets.Spreadsheet{
			SpreadsheetId: "existing",
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{Title: PurchasesTab, SheetId: 7}},
			},
		},
	}
	cfg := testConfig()
	cfg.SpreadsheetID = "existing"
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, discardLogger())

	id, err := w.Export(context.Background(), sampleTransactions())
	require.NoError(t, err)
	assert.Equal(t, "existing", id)
	assert.Zero(t, api.created)

	require.Len(t, api.batches, 1)
	require.Len(t, api.batches[0], 1)
	assert.Equal(t, SummaryTab, api.batches[0][0].AddSheet.Properties.Title)
}

func TestExportBatchesRows(t *testing.T) {
	api := &fakeSpreadsheetAPI{}
	cfg := testConfig()
	cfg.BatchSize = 2
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, discardLogger())

	_, err := w.Export(context.Background(), sampleTransactions())
	require.NoError(t, err)

	assert.Len(t, api.updates["Purchases!A1"], 2)
	assert.Len(t, api.updates["Purchases!A3"], 2)
}

func TestExportRetriesFailedWrites(t *testing.T) {
	api := &fakeSpreadsheetAPI{updateErrs: []error{fmt.Errorf("quota exceeded")}}
	w := newWriter(api, testConfig(), discardLogger())

	_, err := w.Export(context.Background(), sampleTransactions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Purchases!A:Z", "Purchases!A:Z", "Summary!A:Z"}, api.cleared)
}

func TestExportErrors(t *testing.T) {
	t.Run("no transactions", func(t *testing.T) {
		w := newWriter(&fakeSpreadsheetAPI{}, testConfig(), discardLogger())
		_, err := w.Export(context.Background(), nil)
		require.ErrorIs(t, err, ErrNoTransactions)
	})

	t.Run("missing spreadsheet", func(t *testing.T) {
		cfg := testConfig()
		cfg.SpreadsheetID = "missing"
		w := newWriter(&fakeSpreadsheetAPI{}, cfg, discardLogger())
		_, err := w.Export(context.Background(), sampleTransactions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to access spreadsheet missing")
	})
}
