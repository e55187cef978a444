// Package sheets wraps the Google Sheets API for the worksheet the run
// reads part numbers from and writes results back to.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/matt-mccartney/AvnetScraper/internal/config"
)

// Manager performs reads and writes against a single spreadsheet.
type Manager struct {
	svc       *gsheets.Service
	sheetID   string
	worksheet string
	log       *zap.Logger
}

// NewManager authenticates with a service-account credentials file and binds
// to the configured spreadsheet.
func NewManager(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("sheets: credentials path is required")
	}
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("sheets: sheet id is required")
	}

	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}

	worksheet := cfg.WorksheetName
	if worksheet == "" {
		worksheet = "Sheet1"
	}

	return &Manager{
		svc:       svc,
		sheetID:   cfg.SheetID,
		worksheet: worksheet,
		log:       logger.Named("sheets"),
	}, nil
}

// SpreadsheetInfo identifies the document a run is bound to.
type SpreadsheetInfo struct {
	Title     string
	Worksheet string
}

// Info fetches the spreadsheet's display title alongside the bound worksheet.
func (m *Manager) Info(ctx context.Context) (SpreadsheetInfo, error) {
	doc, err := m.svc.Spreadsheets.Get(m.sheetID).Context(ctx).
		Fields("properties.title").Do()
	if err != nil {
		return SpreadsheetInfo{}, fmt.Errorf("sheets: fetching spreadsheet info: %w", err)
	}
	return SpreadsheetInfo{Title: doc.Properties.Title, Worksheet: m.worksheet}, nil
}

// ProductCodes reads column A from startRow down and returns the non-empty
// values in sheet order. Blank cells are skipped, not treated as terminators,
// so gaps in the list do not truncate a run.
func (m *Manager) ProductCodes(ctx context.Context, startRow int) ([]string, error) {
	readRange := fmt.Sprintf("%s!A%d:A", m.worksheet, startRow)
	resp, err := m.svc.Spreadsheets.Values.Get(m.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: reading product codes: %w", err)
	}

	var codes []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if code, ok := row[0].(string); ok {
			if trimmed := strings.TrimSpace(code); trimmed != "" {
				codes = append(codes, trimmed)
			}
		}
	}

	m.log.Info("Loaded product codes",
		zap.String("worksheet", m.worksheet),
		zap.Int("count", len(codes)),
	)
	return codes, nil
}

// ClearColumns blanks the rectangle between two column letters from startRow
// down, so stale results from a previous run never survive a shorter one.
func (m *Manager) ClearColumns(ctx context.Context, fromCol, toCol string, startRow int) error {
	clearRange := cellRange(m.worksheet, fromCol, toCol, startRow)
	_, err := m.svc.Spreadsheets.Values.Clear(m.sheetID, clearRange, &gsheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: clearing %s: %w", clearRange, err)
	}
	m.log.Debug("Cleared range", zap.String("range", clearRange))
	return nil
}

// WriteRows writes a block of rows starting at (startRow, startCol). Values
// are written raw, without spreadsheet-side parsing.
func (m *Manager) WriteRows(ctx context.Context, rows [][]any, startRow int, startCol string) error {
	if len(rows) == 0 {
		return nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	writeRange := fmt.Sprintf("%s!%s%d:%s%d",
		m.worksheet,
		startCol, startRow,
		ShiftColumn(startCol, width-1), startRow+len(rows)-1,
	)

	_, err := m.svc.Spreadsheets.Values.Update(m.sheetID, writeRange, &gsheets.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: writing %s: %w", writeRange, err)
	}

	m.log.Info("Wrote result rows",
		zap.String("range", writeRange),
		zap.Int("rows", len(rows)),
	)
	return nil
}
