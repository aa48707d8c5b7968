package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Exporter appends ledger transactions to a Google Sheet. It is an
// export sink only; the sheet is never read back into the ledger.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a sheets exporter from the application config using
// Service Account credentials.
func New(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing Google spreadsheet ID")
	}
	if cfg.GoogleSheetName == "" {
		return nil, errors.New("missing Google sheet name")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	switch {
	case cfg.GoogleCredentialsJSON != "":
		return []byte(cfg.GoogleCredentialsJSON), nil
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}
}

// Export appends one row per transaction after the sheet's current
// contents. The header row is written only when the sheet is empty.
func (e *Exporter) Export(ctx context.Context, txs []core.Transaction) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", e.sheetName)
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get sheet dimensions for %s: %w", e.sheetName, err)
	}

	values := make([][]any, 0, len(txs)+1)
	if len(resp.Values) == 0 {
		values = append(values, headerRow())
	}
	for _, tx := range txs {
		values = append(values, transactionRow(tx))
	}
	if len(values) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("%s!A:F", e.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err = e.svc.Spreadsheets.Values.Append(e.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported transactions to sheet",
		"sheet", e.sheetName,
		"count", len(txs))
	return nil
}

func headerRow() []any {
	return []any{"Date", "Type", "Category", "Amount", "Description", "Recurring"}
}

func transactionRow(tx core.Transaction) []any {
	recurring := "No"
	if tx.Recurring {
		recurring = "Yes"
	}
	return []any{
		tx.Date.ISO(),
		string(tx.Type),
		tx.Category,
		float64(tx.Amount.Cents) / 100.0,
		tx.Description,
		recurring,
	}
}
