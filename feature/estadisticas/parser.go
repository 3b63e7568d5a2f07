package estadisticas

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pjstats/core/sheets"
	"pjstats/core/utils"
	"pjstats/feature/estadisticas/models"

	"go.uber.org/zap"
)

// Ordered candidate names for columnar header resolution. More specific
// names come first so "dependencia simple" wins over a bare substring hit.
var (
	dependencyColumns = []string{"dependenciasimple", "dependencia"}
	periodColumns     = []string{"periodo"}
	ingresosColumns   = []string{"cantidad de ingresos", "ingresos", "ingreso", "recibido"}
	resueltosColumns  = []string{"resuelto"}
	enTramiteColumns  = []string{"en tramite", "tramite"}
)

// ParseSheet detects the layout of a raw table and extracts statistics.
// A structurally invalid sheet yields an empty result and a warning, never an
// error; per-row failures on the reference path are returned as messages so
// the orchestrator can surface them without aborting the sheet.
func ParseSheet(ctx context.Context, client sheets.Client, sheetTitle string, rows [][]any, logger *zap.Logger) ([]models.ParsedStatistic, []string) {
	if len(rows) == 0 {
		logger.Warn("Sheet is empty", zap.String("sheet", sheetTitle))
		return nil, nil
	}

	switch layout := DetectLayout(rows); layout {
	case LayoutReference:
		return parseReferenceTable(ctx, client, sheetTitle, rows, logger)
	case LayoutColumnar:
		return parseColumnar(sheetTitle, rows, logger), nil
	default:
		logger.Warn("Sheet matches no supported layout", zap.String("sheet", sheetTitle))
		return nil, nil
	}
}

// parseColumnar handles consolidated sheets where each data row is one
// statistic, with columns resolved by fuzzy header matching.
func parseColumnar(sheetTitle string, rows [][]any, logger *zap.Logger) []models.ParsedStatistic {
	header := rows[0]

	depIdx := resolveColumn(header, dependencyColumns)
	periodIdx := resolveColumn(header, periodColumns)
	ingresosIdx := resolveColumn(header, ingresosColumns)
	if depIdx < 0 || periodIdx < 0 || ingresosIdx < 0 {
		logger.Warn("Consolidated sheet is missing required columns",
			zap.String("sheet", sheetTitle),
			zap.Int("dependencia", depIdx),
			zap.Int("periodo", periodIdx),
			zap.Int("ingresos", ingresosIdx))
		return nil
	}

	resueltosIdx := resolveColumn(header, resueltosColumns)
	enTramiteIdx := resolveColumn(header, enTramiteColumns)

	var stats []models.ParsedStatistic
	for _, row := range rows[1:] {
		depName := strings.TrimSpace(utils.ToString(cellAt(row, depIdx)))
		periodCell := cellAt(row, periodIdx)
		ingresosCell := cellAt(row, ingresosIdx)
		if depName == "" || periodCell == nil || ingresosCell == nil {
			continue
		}

		period, ok := parsePeriodCell(periodCell)
		if !ok {
			logger.Debug("Unparseable period cell",
				zap.String("sheet", sheetTitle),
				zap.String("value", utils.ToString(periodCell)))
			continue
		}

		stat := models.ParsedStatistic{
			DependencyName: depName,
			Period:         period,
			Recibidos:      utils.ToCount(ingresosCell),
			SourceID:       sheetTitle,
			SourceKind:     models.SourceKindConsolidated,
		}
		if resueltosIdx >= 0 {
			stat.Resueltos = utils.ToCount(cellAt(row, resueltosIdx))
		}
		if enTramiteIdx >= 0 {
			stat.Existentes = utils.ToCount(cellAt(row, enTramiteIdx))
		}
		stats = append(stats, stat)
	}
	return stats
}

var (
	monthSlashYear = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	yearDashMonth  = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	yearMonthPlain = regexp.MustCompile(`^(\d{4})(\d{2})$`)
)

// excelEpoch is day zero of the 1900 date system (with the Lotus leap bug
// accounted for, serial 1 = 1899-12-31).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parsePeriodCell tries the supported period encodings in order:
// MM/YYYY, YYYY-MM, YYYYMM, and finally an Excel serial date number.
// The first matching pattern wins.
func parsePeriodCell(val any) (string, bool) {
	s := strings.TrimSpace(utils.ToString(val))

	if m := monthSlashYear.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s%02d", m[2], utils.ToInt(m[1])), true
	}
	if m := yearDashMonth.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s%02d", m[1], utils.ToInt(m[2])), true
	}
	if yearMonthPlain.MatchString(s) {
		return s, true
	}

	// Excel serial date (days since 1899-12-30). Serials for 2005..2099
	// land far outside the YYYYMM numeric range, so the order is safe.
	if utils.IsNumeric(val) {
		serial := utils.ToInt(val)
		if serial > 0 && serial < 80000 {
			d := excelEpoch.AddDate(0, 0, serial)
			return fmt.Sprintf("%04d%02d", d.Year(), int(d.Month())), true
		}
	}
	return "", false
}
