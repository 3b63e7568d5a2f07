package estadisticas

import (
	"context"
	"fmt"
	"strings"

	"pjstats/core/sheets"

	"go.uber.org/zap"
)

// headerProbeRows is how many rows the discovery probe fetches per sheet.
const headerProbeRows = 2

// ListValidSheets lists the sheets of a workbook and keeps those whose
// header row matches one of the supported layouts. Probe failures on a
// single sheet (an empty sheet, a protected range) demote it to not-valid
// instead of failing discovery; only the workbook listing itself - which
// fails on bad credentials - propagates an error.
func ListValidSheets(ctx context.Context, client sheets.Client, spreadsheetID string, logger *zap.Logger) ([]sheets.SheetInfo, error) {
	infos, err := client.ListSheets(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to discover sheets: %w", err)
	}

	valid := make([]sheets.SheetInfo, 0, len(infos))
	for _, info := range infos {
		rows, err := client.GetValues(ctx, spreadsheetID, HeaderRange(info.Title))
		if err != nil {
			logger.Debug("Header probe failed, excluding sheet",
				zap.String("sheet", info.Title), zap.Error(err))
			continue
		}

		layout := DetectLayout(rows)
		if layout == LayoutUnknown {
			logger.Debug("Sheet excluded by classifier", zap.String("sheet", info.Title))
			continue
		}

		logger.Info("Valid data sheet found",
			zap.String("sheet", info.Title),
			zap.String("layout", layout.String()),
			zap.Int64("rows", info.RowCount))
		valid = append(valid, info)
	}
	return valid, nil
}

// HeaderRange builds the range expression probing a sheet's header rows.
func HeaderRange(title string) string {
	return fmt.Sprintf("'%s'!A1:Z%d", escapeSheetTitle(title), headerProbeRows)
}

// DataRange builds the range expression fetching a sheet's full data area.
func DataRange(title string) string {
	return fmt.Sprintf("'%s'!A1:Z10000", escapeSheetTitle(title))
}

// escapeSheetTitle doubles embedded single quotes per the A1-notation rules.
func escapeSheetTitle(title string) string {
	return strings.ReplaceAll(title, "'", "''")
}
