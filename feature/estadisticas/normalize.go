package estadisticas

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPeriod marks a period that fails the YYYYMM shape or range check.
// Records carrying an invalid period are skipped, not treated as run errors.
var ErrInvalidPeriod = errors.New("invalid period")

var (
	periodPattern     = regexp.MustCompile(`^\d{6}$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizePeriod validates a YYYYMM period string. Year must be in
// [2005, 2099] and month in [1, 12].
func NormalizePeriod(period string) (string, error) {
	p := strings.TrimSpace(period)
	if !periodPattern.MatchString(p) {
		return "", ErrInvalidPeriod
	}

	year, _ := strconv.Atoi(p[:4])
	month, _ := strconv.Atoi(p[4:])
	if year < 2005 || year > 2099 {
		return "", ErrInvalidPeriod
	}
	if month < 1 || month > 12 {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// NormalizeDependencyName canonicalizes a dependency name: trim, collapse
// internal whitespace, uppercase. Idempotent under re-application.
func NormalizeDependencyName(name string) string {
	n := strings.TrimSpace(name)
	n = whitespacePattern.ReplaceAllString(n, " ")
	return strings.ToUpper(n)
}

// dependencyTypeKeywords is checked in order; the first keyword contained in
// the normalized name wins.
var dependencyTypeKeywords = []struct {
	keyword string
	tipo    string
}{
	{"CÁMARA FEDERAL", "CAMARA_FEDERAL"},
	{"CAMARA FEDERAL", "CAMARA_FEDERAL"},
	{"JUZGADO FEDERAL", "JUZGADO_FEDERAL"},
	{"TRIBUNAL", "TRIBUNAL"},
	{"CORTE", "CORTE"},
	{"SECRETARÍA", "SECRETARIA"},
	{"SECRETARIA", "SECRETARIA"},
	{"JUZGADO", "JUZGADO"},
	{"CÁMARA", "CAMARA"},
	{"CAMARA", "CAMARA"},
	{"FISCALÍA", "FISCALIA"},
	{"FISCALIA", "FISCALIA"},
	{"DEFENSORÍA", "DEFENSORIA"},
	{"DEFENSORIA", "DEFENSORIA"},
}

// InferDependencyType classifies a dependency name by its first matching
// judicial-entity keyword, defaulting to OTRO.
func InferDependencyType(name string) string {
	n := NormalizeDependencyName(name)
	for _, entry := range dependencyTypeKeywords {
		if strings.Contains(n, entry.keyword) {
			return entry.tipo
		}
	}
	return "OTRO"
}
