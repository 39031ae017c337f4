package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"shiftpay/internal/core"
	ports "shiftpay/internal/sheets"
)

// Options configures the exporter. One of CredentialsJSON or CredentialsFile
// must hold service account credentials.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Exporter writes monthly ledgers to a Google spreadsheet, one sheet per month.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	baseName      string
}

var _ ports.MonthExporter = (*Exporter)(nil)

func NewExporter(ctx context.Context, opts Options) (*Exporter, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = "Shifts"
	}

	credentials, err := readCredentials(ctx, opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{svc: svc, spreadsheetID: spreadsheetID, baseName: base}, nil
}

func readCredentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account credentials", "path", file, "size", len(data))
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// ExportMonth replaces the contents of the month's sheet, creating it first
// when the spreadsheet does not have it yet.
func (e *Exporter) ExportMonth(ctx context.Context, ym core.YearMonth, days []core.DayEntry, summary core.MonthSummary) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	title := ports.SheetTitle(ym, e.baseName)

	if err := e.ensureSheet(ctx, title); err != nil {
		return err
	}

	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, sheetRange(title, ""), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %q: %w", title, err)
	}

	rows := ports.BuildRows(days, summary)
	vr := &gsheet.ValueRange{Values: rows}
	resp, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, sheetRange(title, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %q: %w", title, err)
	}

	slog.InfoContext(ctx, "Exported month to Google Sheets",
		"sheet", title,
		"rows", len(rows),
		"updated_cells", resp.UpdatedCells)
	return nil
}

func (e *Exporter) ensureSheet(ctx context.Context, title string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	if hasSheet(ss, title) {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", title, err)
	}
	slog.InfoContext(ctx, "Created sheet", "sheet", title)
	return nil
}

// sheetRange builds an A1 range with the sheet title quoted.
// An empty cell addresses the whole sheet.
func sheetRange(title, cell string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if cell == "" {
		return quoted
	}
	return quoted + "!" + cell
}

func hasSheet(ss *gsheet.Spreadsheet, title string) bool {
	if ss == nil {
		return false
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true
		}
	}
	return false
}
