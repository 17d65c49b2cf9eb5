package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/model"
)

// ErrNoTransactions is returned when there is nothing to export.
var ErrNoTransactions = errors.New("no transactions to export")

// spreadsheetAPI is the slice of the Sheets service the writer uses.
type spreadsheetAPI interface {
	Get(ctx context.Context, id string) (*sheets.Spreadsheet, error)
	Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error)
	BatchUpdate(ctx context.Context, id string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error)
	Clear(ctx context.Context, id, rng string) error
	Update(ctx context.Context, id, rng string, values [][]any) error
}

// Writer exports purchases to Google Sheets.
type Writer struct {
	api    spreadsheetAPI
	logger *slog.Logger
	config Config
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(serviceAPI{srv: srv}, config, logger), nil
}

func newWriter(api spreadsheetAPI, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		api:    api,
		config: config,
		logger: logger,
	}
}

// Export replaces the Purchases and Summary tabs with txns and returns the
// spreadsheet ID.
func (w *Writer) Export(ctx context.Context, txns []model.Transaction) (string, error) {
	if len(txns) == 0 {
		return "", ErrNoTransactions
	}

	w.logger.Info("starting sheets export", "transactions", len(txns))

	// Get or create spreadsheet
	spreadsheet, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	spreadsheetID := spreadsheet.SpreadsheetId

	// Ensure both tabs exist
	sheetIDs, err := w.ensureTabs(ctx, spreadsheet)
	if err != nil {
		return "", fmt.Errorf("failed to prepare tabs: %w", err)
	}

	// Prepare data
	data := buildTabData(txns)
	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	tabs := []struct {
		title  string
		values [][]any
	}{
		{PurchasesTab, data.Purchases},
		{SummaryTab, data.Summary},
	}
	// Rewrite each tab from scratch
	for _, tab := range tabs {
		err = common.WithRetry(ctx, func() error {
			if clearErr := w.api.Clear(ctx, spreadsheetID, tab.title+"!A:Z"); clearErr != nil {
				return fmt.Errorf("failed to clear %s: %w", tab.title, clearErr)
			}
			return w.writeData(ctx, spreadsheetID, tab.title, tab.values)
		}, retryOpts)
		if err != nil {
			return "", fmt.Errorf("failed to write %s: %w", tab.title, err)
		}
	}

	// Apply formatting
	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetIDs)
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(data.Purchases)-1)

	return spreadsheetID, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	// Use service account authentication
	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		// Use OAuth2 refresh token
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets the configured spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	if w.config.SpreadsheetID != "" {
		spreadsheet, err := w.api.Get(ctx, w.config.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return spreadsheet, nil
	}

	// Create new spreadsheet with both tabs
	name := w.config.SpreadsheetName
	if name == "" {
		name = DefaultSpreadsheetName
	}
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    name,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: PurchasesTab}},
			{Properties: &sheets.SheetProperties{Title: SummaryTab}},
		},
	}

	created, err := w.api.Create(ctx, spreadsheet)
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created, nil
}

// ensureTabs adds whichever export tabs are missing and returns the sheet
// ID of each one.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheet *sheets.Spreadsheet) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			ids[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	var requests []*sheets.Request
	for _, title := range []string{PurchasesTab, SummaryTab} {
		if _, ok := ids[title]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			})
		}
	}
	if len(requests) == 0 {
		return ids, nil
	}

	resp, err := w.api.BatchUpdate(ctx, spreadsheet.SpreadsheetId, requests)
	if err != nil {
		return nil, err
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return ids, nil
}

// writeData writes values to a tab in batches to stay under API limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	batchSize := w.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(values)
	}

	for i := 0; i < len(values); i += batchSize {
		end := min(i+batchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("%s!A%d", tab, i+1)
		if err := w.api.Update(ctx, spreadsheetID, rangeStr, batch); err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes header rows and formats money columns.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetIDs map[string]int64) error {
	var requests []*sheets.Request

	format := []struct {
		tab         string
		moneyColumn int64
		columns     int64
	}{
		{PurchasesTab, 2, 11},
		{SummaryTab, 3, 4},
	}
	for _, f := range format {
		sheetID, ok := sheetIDs[f.tab]
		if !ok {
			continue
		}
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       sheetID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat",
				},
			},
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    1,
						StartColumnIndex: f.moneyColumn,
						EndColumnIndex:   f.moneyColumn + 1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{
								Type:    "NUMBER",
								Pattern: "#,##0.00",
							},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   f.columns,
					},
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: sheetID,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount: 1,
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		)
	}

	if len(requests) == 0 {
		return nil
	}
	_, err := w.api.BatchUpdate(ctx, spreadsheetID, requests)
	return err
}

// serviceAPI adapts *sheets.Service to spreadsheetAPI.
type serviceAPI struct {
	srv *sheets.Service
}

func (s serviceAPI) Get(ctx context.Context, id string) (*sheets.Spreadsheet, error) {
	return s.srv.Spreadsheets.Get(id).Context(ctx).Do()
}

func (s serviceAPI) Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	return s.srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
}

func (s serviceAPI) BatchUpdate(ctx context.Context, id string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return s.srv.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
}

func (s serviceAPI) Clear(ctx context.Context, id, rng string) error {
	_, err := s.srv.Spreadsheets.Values.Clear(id, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s serviceAPI) Update(ctx context.Context, id, rng string, values [][]any) error {
	_, err := s.srv.Spreadsheets.Values.Update(id, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
