package estadisticas

import (
	"context"
	"fmt"
	"strings"

	"pjstats/core/sheets"
	"pjstats/core/utils"
	"pjstats/feature/estadisticas/models"

	"go.uber.org/zap"
)

// Candidate names for reference-table header resolution.
var (
	plantillaColumns    = []string{"plantilla"}
	anioColumns         = []string{"anio", "año"}
	mesColumns          = []string{"mes"}
	idConfirmadoColumns = []string{"id_confirmado"}
)

// referencedDocRange covers the portion of a referenced document the detail
// parser scans. Omitting the sheet name addresses the document's first sheet.
const referencedDocRange = "A1:Z300"

// templateLabels maps template keywords (checked in order) to coarse
// dependency labels for rows whose template string is recognized.
var templateLabels = []struct {
	keyword string
	label   string
}{
	{"previsional", "PREVISIONAL"},
	{"seguridad social", "PREVISIONAL"},
	{"civil", "CIVIL Y COMERCIAL"},
	{"penal", "PENAL"},
	{"laboral", "LABORAL"},
	{"contencioso", "CONTENCIOSO ADMINISTRATIVO"},
}

// parseReferenceTable handles sheets whose rows each address another
// spreadsheet by id. Every valid row costs one additional fetch through the
// rate-limited client to retrieve and parse the referenced document.
func parseReferenceTable(ctx context.Context, client sheets.Client, sheetTitle string, rows [][]any, logger *zap.Logger) ([]models.ParsedStatistic, []string) {
	header := rows[0]

	plantillaIdx := resolveColumn(header, plantillaColumns)
	anioIdx := resolveColumn(header, anioColumns)
	mesIdx := resolveColumn(header, mesColumns)
	idIdx := resolveColumn(header, idConfirmadoColumns)
	if plantillaIdx < 0 || anioIdx < 0 || mesIdx < 0 || idIdx < 0 {
		logger.Warn("Reference table is missing required columns", zap.String("sheet", sheetTitle))
		return nil, nil
	}

	var stats []models.ParsedStatistic
	var errs []string
	skipped := 0

	for _, row := range rows[1:] {
		template := strings.TrimSpace(utils.ToString(cellAt(row, plantillaIdx)))
		year := utils.ToInt(cellAt(row, anioIdx))
		month := utils.ToInt(cellAt(row, mesIdx))
		docID := strings.TrimSpace(utils.ToString(cellAt(row, idIdx)))

		// Incomplete rows are skipped, not errors.
		if template == "" || year == 0 || month == 0 || docID == "" {
			skipped++
			continue
		}

		period := fmt.Sprintf("%04d%02d", year, month)
		label := inferTemplateLabel(template)

		docRows, err := client.GetValues(ctx, docID, referencedDocRange)
		if err != nil {
			errs = append(errs, fmt.Sprintf("referenced document %s (%s): %v", docID, label, err))
			continue
		}

		detail := parseDetailDocument(docRows)
		stats = append(stats, models.ParsedStatistic{
			DependencyName: label,
			Period:         period,
			Existentes:     detail.Existentes,
			Recibidos:      detail.Recibidos,
			Reingresados:   detail.Reingresados,
			Categories:     detail.Categories,
			SourceID:       docID,
			SourceKind:     models.SourceKindReference,
			Judge:          detail.Judge,
			Secretary:      detail.Secretary,
		})
	}

	if skipped > 0 {
		logger.Info("Skipped incomplete reference rows",
			zap.String("sheet", sheetTitle), zap.Int("skipped", skipped))
	}
	return stats, errs
}

// inferTemplateLabel derives a coarse dependency label from the template
// string by ordered keyword match. Unmatched templates use their first 50
// characters verbatim.
func inferTemplateLabel(template string) string {
	lowered := normalizeToken(template)
	for _, entry := range templateLabels {
		if strings.Contains(lowered, entry.keyword) {
			return entry.label
		}
	}
	runes := []rune(template)
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return template
}
