package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matt-mccartney/AvnetScraper/internal/catalog"
	"github.com/matt-mccartney/AvnetScraper/internal/observability"
	"github.com/matt-mccartney/AvnetScraper/internal/sheets"
)

// Result columns start at B; A holds the part numbers the operator entered.
const (
	resultStartCol = "B"
	resultColCount = 6
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Query the catalog for every part in the sheet and write results back",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		if err := cfg.ValidateRun(); err != nil {
			return err
		}
		log := observability.GetLogger().Named("run")
		ctx := cmd.Context()

		cred, err := newAcquirer(cfg).GetCredential(ctx, cfg.Credential.TTL)
		if err != nil {
			return err
		}

		sheet, err := sheets.NewManager(ctx, cfg.Sheets, observability.GetLogger())
		if err != nil {
			return err
		}

		info, err := sheet.Info(ctx)
		if err != nil {
			return err
		}
		log.Info("Connected to spreadsheet",
			zap.String("title", info.Title),
			zap.String("worksheet", info.Worksheet),
		)

		parts, err := sheet.ProductCodes(ctx, cfg.Sheets.StartRow)
		if err != nil {
			return err
		}
		if len(parts) == 0 {
			log.Warn("No part numbers found, nothing to do")
			return nil
		}

		client := catalog.NewClient(cfg.Catalog, cred.Value, observability.GetLogger())
		results := client.FetchAll(ctx, parts, cfg.Catalog.Workers)

		rows := make([][]any, len(results))
		for i, r := range results {
			rows[i] = resultRow(r)
		}

		lastCol := sheets.ShiftColumn(resultStartCol, resultColCount)
		if err := sheet.ClearColumns(ctx, resultStartCol, lastCol, cfg.Sheets.StartRow); err != nil {
			return err
		}
		// Header row sits directly above the data block, refreshed on every
		// run so the labels always match the columns being written.
		if cfg.Sheets.StartRow > 1 {
			if err := sheet.WriteRows(ctx, [][]any{headerRow()}, cfg.Sheets.StartRow-1, resultStartCol); err != nil {
				return err
			}
		}
		if err := sheet.WriteRows(ctx, rows, cfg.Sheets.StartRow, resultStartCol); err != nil {
			return err
		}

		log.Info("Run complete", zap.Int("parts", len(parts)))
		return nil
	},
}

// headerRow labels the result columns, aligned one for one with resultRow.
func headerRow() []any {
	return []any{"Part Number", "Status", "Item Number", "Manufacturer", "Stock", "Country of Origin", "Error"}
}

// resultRow renders one lookup outcome as a sheet row:
// part, ok, item number, manufacturer, stock, country, error.
func resultRow(r catalog.Result) []any {
	if r.Err != nil {
		return []any{r.Part, "ERROR", "", "", "", "", r.Err.Error()}
	}
	return []any{
		r.Part,
		"OK",
		r.Product.ItemNumber,
		r.Product.Manufacturer,
		r.Product.Stock,
		r.Product.CountryOfOrigin,
		"",
	}
}
