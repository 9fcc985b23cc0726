package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/spendlog/internal/common"
	"github.com/Veraticus/spendlog/internal/model"
	"github.com/Veraticus/spendlog/internal/pipeline"
	"github.com/Veraticus/spendlog/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// api is the subset of the Sheets API the writer needs.
type api interface {
	ensureSpreadsheet(ctx context.Context, cfg Config) (string, error)
	clear(ctx context.Context, spreadsheetID, sheet string) error
	update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
	format(ctx context.Context, spreadsheetID string, headerRow, totalRows int) error
}

// Writer writes the expense view to a spreadsheet.
type Writer struct {
	api    api
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

	return &Writer{
		config: config,
		api:    &googleAPI{srv: srv, logger: logger},
		logger: logger,
	}, nil
}

// Write replaces the sheet's contents with the summary and rows. It returns
// the spreadsheet ID.
func (w *Writer) Write(ctx context.Context, rows []pipeline.Row, summary pipeline.Summary) (string, error) {
	w.logger.Info("starting sheets export", "rows", len(rows), "currency", summary.Currency)

	spreadsheetID, err := w.api.ensureSpreadsheet(ctx, w.config)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if err := common.WithRetry(ctx, func() error {
		return w.api.clear(ctx, spreadsheetID, w.config.SheetName)
	}, retryOpts); err != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", err)
	}

	values, headerRow := prepareValues(rows, summary)

	for start := 0; start < len(values); start += w.config.BatchSize {
		end := min(start+w.config.BatchSize, len(values))
		batch := values[start:end]
		rng := fmt.Sprintf("%s!A%d", w.config.SheetName, start+1)

		if err := common.WithRetry(ctx, func() error {
			return w.api.update(ctx, spreadsheetID, rng, batch)
		}, retryOpts); err != nil {
			return "", fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
		}
		w.logger.Debug("wrote batch", "start_row", start+1, "rows", len(batch))
	}

	if w.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return w.api.format(ctx, spreadsheetID, headerRow, len(values))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed", "spreadsheet_id", spreadsheetID, "rows_written", len(values))
	return spreadsheetID, nil
}

// prepareValues lays out the summary block followed by the expense table.
// It also returns the zero-based index of the table header row.
func prepareValues(rows []pipeline.Row, s pipeline.Summary) ([][]any, int) {
	amount := func(v decimal.Decimal) string {
		return v.StringFixed(model.AmountPlaces)
	}

	values := make([][]any, 0, 12+len(s.CategoryTotals)+len(rows))
	values = append(values,
		[]any{"Expense Report", fmt.Sprintf("Amounts in %s", s.Currency)},
		[]any{},
		[]any{"Summary"},
		[]any{"Total", amount(s.TotalAll)},
		[]any{"Filtered total", amount(s.TotalFiltered)},
		[]any{"Filtered count", s.CountFiltered},
		[]any{"This month (" + s.MonthLabel + ")", amount(s.MonthlyTotal)},
		[]any{},
		[]any{"Category", "Total"},
	)
	for _, b := range s.CategoryTotals {
		values = append(values, []any{b.Label, amount(b.Total)})
	}
	values = append(values, []any{})

	headerRow := len(values)
	values = append(values, []any{"Date", "Category", "Description", "Amount", "Currency", "Display Amount"})
	for _, r := range rows {
		e := r.Entry
		values = append(values, []any{
			e.Date.String(),
			string(e.Category),
			e.Description,
			amount(e.Amount),
			string(e.Currency),
			amount(r.Display),
		})
	}
	return values, headerRow
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

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
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if config.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token from %s (run `spend auth sheets`): %w", config.TokenFile, err)
			}
			token = saved
		}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// googleAPI implements api on the real service.
type googleAPI struct {
	srv    *sheets.Service
	logger *slog.Logger
}

func (g *googleAPI) ensureSpreadsheet(ctx context.Context, cfg Config) (string, error) {
	if cfg.SpreadsheetID != "" {
		if _, err := g.srv.Spreadsheets.Get(cfg.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", cfg.SpreadsheetID, err)
		}
		return cfg.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    cfg.SpreadsheetName,
			TimeZone: cfg.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: cfg.SheetName}},
		},
	}

	created, err := g.srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	g.logger.Info("created new spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

func (g *googleAPI) clear(ctx context.Context, spreadsheetID, sheet string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(spreadsheetID, sheet+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return classify(err)
}

func (g *googleAPI) update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return classify(err)
}

func (g *googleAPI) format(ctx context.Context, spreadsheetID string, headerRow, totalRows int) error {
	bold := func(startRow, endRow, startCol, endCol int64, size int64) *sheets.Request {
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    startRow,
					EndRowIndex:      endRow,
					StartColumnIndex: startCol,
					EndColumnIndex:   endCol,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}
	}

	requests := []*sheets.Request{
		bold(0, 1, 0, 2, 16),
		bold(int64(headerRow), int64(headerRow)+1, 0, 6, 10),
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   6,
				},
			},
		},
	}
	if totalRows > headerRow {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    int64(headerRow) + 1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 3,
					EndColumnIndex:   6,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "#,##0.00"},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	_, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return classify(err)
}

// classify maps API status codes onto the retry rules: 429 waits out the
// quota, other 4xx responses fail at once, everything else is retried.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}
