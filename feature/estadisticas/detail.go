package estadisticas

import (
	"strings"

	"pjstats/core/utils"
	"pjstats/feature/estadisticas/models"
)

// Section markers recognized by substring match on the first cell of a row.
const (
	markerExistentes   = "I. EXPEDIENTES EXISTENTES"
	markerRecibidos    = "II. EXPEDIENTES RECIBIDOS"
	markerSectionClose = "III."
)

// Fixed column offsets of the category line items inside the detail section.
const (
	categoryAsignadosCol    = 5
	categoryReingresadosCol = 6
)

// totalThreshold filters section totals from row counters: the first numeric
// cell above it on a marker row is taken as the section total.
const totalThreshold = 1000

// detailResult is the output of the detailed single-document parser.
type detailResult struct {
	Existentes   int
	Recibidos    int
	Reingresados int
	Categories   models.CategoryMap
	Judge        string
	Secretary    string
}

// parseDetailDocument scans a single statistics document top-to-bottom for
// the roman-numeral section markers, reading totals and category line items.
// When no marker is found at all it falls back to the numeric-guess
// heuristic, which is fragile but preserved deliberately: some documents
// carry bare numbers with no recognizable structure, and operators prefer a
// guessed record over a silently dropped one.
func parseDetailDocument(rows [][]any) detailResult {
	var result detailResult
	foundExistentes := false
	foundRecibidos := false
	inDetailSection := false

	for i, row := range rows {
		first := strings.ToUpper(strings.TrimSpace(utils.ToString(cellAt(row, 0))))

		switch {
		case strings.Contains(first, markerExistentes):
			inDetailSection = false
			if v, ok := numericOver(row, totalThreshold); ok {
				result.Existentes = v
				foundExistentes = true
			} else if i+1 < len(rows) {
				if v, ok := numericOver(rows[i+1], totalThreshold); ok {
					result.Existentes = v
					foundExistentes = true
				}
			}
			continue

		case strings.Contains(first, markerRecibidos):
			// Unlike existentes, received totals can legitimately be small,
			// so any positive number on the marker row counts.
			if v, ok := numericOver(row, 0); ok {
				result.Recibidos = v
				foundRecibidos = true
				// Some documents split the total across two lines; the
				// larger number in the following row wins.
				if i+1 < len(rows) {
					if next, ok := numericOver(rows[i+1], result.Recibidos); ok && next > result.Recibidos {
						result.Recibidos = next
					}
				}
			}
			inDetailSection = true
			continue

		case strings.Contains(first, markerSectionClose):
			inDetailSection = false
			continue
		}

		// Person rows are consumed; they must not show up as categories.
		if judge, ok := extractPerson(first, row, "JUEZ"); ok {
			if result.Judge == "" {
				result.Judge = judge
			}
			continue
		}
		if sec, ok := extractPerson(first, row, "SECRETARI"); ok {
			if result.Secretary == "" {
				result.Secretary = sec
			}
			continue
		}

		if inDetailSection && len([]rune(strings.TrimSpace(utils.ToString(cellAt(row, 0))))) > 5 {
			name := strings.TrimSpace(utils.ToString(cellAt(row, 0)))
			if result.Categories == nil {
				result.Categories = models.CategoryMap{}
			}
			result.Categories[name] = models.CategoryCount{
				Asignados:    utils.ToCount(cellAt(row, categoryAsignadosCol)),
				Reingresados: utils.ToCount(cellAt(row, categoryReingresadosCol)),
			}
		}
	}

	// The documents report re-entries only per category.
	for _, c := range result.Categories {
		result.Reingresados += c.Reingresados
	}

	if !foundExistentes && !foundRecibidos {
		guessNumericTotals(rows, &result)
	}
	return result
}

// numericOver returns the first numeric cell in the row strictly greater
// than the threshold.
func numericOver(row []any, threshold int) (int, bool) {
	for _, cell := range row {
		if !utils.IsNumeric(cell) {
			continue
		}
		if v := utils.ToInt(cell); v > threshold {
			return v, true
		}
	}
	return 0, false
}

// guessNumericTotals is the last-resort fallback: the first three positive
// numbers below 10,000 in row-major order become recibidos, existentes and
// reingresados in that order. Known to be data-dependent; kept as documented
// legacy behavior rather than validated as correct.
func guessNumericTotals(rows [][]any, result *detailResult) {
	var found []int
	for _, row := range rows {
		for _, cell := range row {
			if !utils.IsNumeric(cell) {
				continue
			}
			v := utils.ToInt(cell)
			if v > 0 && v < 10000 {
				found = append(found, v)
				if len(found) == 3 {
					break
				}
			}
		}
		if len(found) == 3 {
			break
		}
	}

	if len(found) > 0 {
		result.Recibidos = found[0]
	}
	if len(found) > 1 {
		result.Existentes = found[1]
	}
	if len(found) > 2 {
		result.Reingresados = found[2]
	}
}

// extractPerson pulls a name from rows like ["JUEZ: DR. PEREZ"] or
// ["JUEZ", "DR. PEREZ"].
func extractPerson(first string, row []any, keyword string) (string, bool) {
	if !strings.Contains(first, keyword) || strings.Contains(first, "EXPEDIENTE") {
		return "", false
	}
	raw := strings.TrimSpace(utils.ToString(cellAt(row, 0)))
	if idx := strings.Index(raw, ":"); idx >= 0 && idx+1 < len(raw) {
		if name := strings.TrimSpace(raw[idx+1:]); name != "" {
			return name, true
		}
	}
	if name := strings.TrimSpace(utils.ToString(cellAt(row, 1))); name != "" {
		return name, true
	}
	return "", false
}
