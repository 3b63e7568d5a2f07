package estadisticas

import (
	"strings"

	"pjstats/core/utils"
)

// Layout identifies which of the supported tabular layouts a sheet uses.
type Layout int

const (
	// LayoutUnknown means no marker set matched; the sheet is not a data source.
	LayoutUnknown Layout = iota
	// LayoutReference is a table whose rows address other spreadsheets by id.
	LayoutReference
	// LayoutColumnar is a consolidated sheet where each row is one statistic.
	LayoutColumnar
)

func (l Layout) String() string {
	switch l {
	case LayoutReference:
		return "reference"
	case LayoutColumnar:
		return "columnar"
	default:
		return "unknown"
	}
}

// referenceMarkers must all be covered for a sheet to classify as a
// reference table. Each entry lists accepted variants.
var referenceMarkers = [][]string{
	{"plantilla"},
	{"anio", "año"},
	{"mes"},
	{"id_confirmado"},
}

// columnarMarkers must all be covered for a consolidated sheet.
var columnarMarkers = [][]string{
	{"dependencia"},
	{"periodo"},
	{"ingreso", "recibido"},
}

// DetectLayout classifies a sheet by testing its header row (and the row
// below, since some sheets carry a title line) against the marker sets.
func DetectLayout(rows [][]any) Layout {
	tokens := headerTokens(rows)
	if len(tokens) == 0 {
		return LayoutUnknown
	}
	if coversMarkers(tokens, referenceMarkers) {
		return LayoutReference
	}
	if coversMarkers(tokens, columnarMarkers) {
		return LayoutColumnar
	}
	return LayoutUnknown
}

// headerTokens flattens the first two rows into normalized tokens.
func headerTokens(rows [][]any) []string {
	var tokens []string
	for i, row := range rows {
		if i >= 2 {
			break
		}
		for _, cell := range row {
			if s := normalizeToken(utils.ToString(cell)); s != "" {
				tokens = append(tokens, s)
			}
		}
	}
	return tokens
}

// coversMarkers reports whether every marker group has at least one variant
// appearing as a substring of some token.
func coversMarkers(tokens []string, markers [][]string) bool {
	for _, variants := range markers {
		found := false
		for _, token := range tokens {
			for _, v := range variants {
				if strings.Contains(token, v) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
)

// normalizeToken lowercases a header cell and folds accented vowels so that
// marker matching is insensitive to accents ("Año" vs "Anio").
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return accentReplacer.Replace(s)
}

// resolveColumn returns the index of the first header cell containing any of
// the candidate names, or -1 when none matches. Candidates are tried in
// order, so more specific names should come first.
func resolveColumn(header []any, candidates []string) int {
	for _, cand := range candidates {
		for i, cell := range header {
			if strings.Contains(normalizeToken(utils.ToString(cell)), cand) {
				return i
			}
		}
	}
	return -1
}

// cellAt safely reads a cell from a row, returning nil past the row's end.
func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
