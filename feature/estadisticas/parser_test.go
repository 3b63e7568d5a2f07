package estadisticas

import (
	"context"
	"testing"

	"pjstats/core/sheets/mocks"
	"pjstats/feature/estadisticas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseColumnar(t *testing.T) {
	rows := [][]any{
		{"Dependencia", "Periodo", "Cantidad de Ingresos", "En Trámite"},
		{"JUZGADO X", "02/2024", float64(50), float64(5)},
	}

	stats := parseColumnar("consolidado", rows, zap.NewNop())
	require.Len(t, stats, 1)

	assert.Equal(t, "JUZGADO X", stats[0].DependencyName)
	assert.Equal(t, "202402", stats[0].Period)
	assert.Equal(t, 50, stats[0].Recibidos)
	assert.Equal(t, 5, stats[0].Existentes)
	assert.Equal(t, models.SourceKindConsolidated, stats[0].SourceKind)
}

func TestParseColumnar_SkipsIncompleteRows(t *testing.T) {
	rows := [][]any{
		{"Dependencia", "Periodo", "Ingresos"},
		{"", "202402", float64(10)},           // no dependency
		{"JUZGADO A", nil, float64(10)},       // no period
		{"JUZGADO B", "202403"},               // no ingresos cell
		{"JUZGADO C", "basura", float64(10)},  // unparseable period
		{"JUZGADO D", "202403", float64(12)},  // valid
	}

	stats := parseColumnar("consolidado", rows, zap.NewNop())
	require.Len(t, stats, 1)
	assert.Equal(t, "JUZGADO D", stats[0].DependencyName)
	assert.Equal(t, "202403", stats[0].Period)
}

func TestParseColumnar_MissingRequiredColumns(t *testing.T) {
	rows := [][]any{
		{"Dependencia", "Observaciones"},
		{"JUZGADO X", "algo"},
	}
	stats := parseColumnar("consolidado", rows, zap.NewNop())
	assert.Empty(t, stats)
}

func TestParseColumnar_NegativeCountsFold(t *testing.T) {
	rows := [][]any{
		{"Dependencia", "Periodo", "Ingresos", "Resueltos"},
		{"JUZGADO X", "202401", float64(-7), "N/A"},
	}

	stats := parseColumnar("consolidado", rows, zap.NewNop())
	require.Len(t, stats, 1)
	assert.Equal(t, 7, stats[0].Recibidos)
	assert.Equal(t, 0, stats[0].Resueltos)
}

func TestParsePeriodCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"MM/YYYY", "02/2024", "202402", true},
		{"M/YYYY", "2/2024", "202402", true},
		{"YYYY-MM", "2024-02", "202402", true},
		{"YYYY-M", "2024-2", "202402", true},
		{"YYYYMM string", "202402", "202402", true},
		{"YYYYMM numeric", float64(202402), "202402", true},
		{"excel serial for feb 2024", float64(45323), "202402", true}, // 2024-02-01
		{"text", "periodo", "", false},
		{"empty", "", "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePeriodCell(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSheet_ReferenceTableFetchesDocuments(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetValues", mock.Anything, "doc-123", referencedDocRange).Return([][]any{
		{"I. EXPEDIENTES EXISTENTES", float64(1500)},
		{"II. EXPEDIENTES RECIBIDOS", float64(300)},
	}, nil)

	rows := [][]any{
		{"Plantilla", "Anio", "Mes", "Id_Confirmado"},
		{"Fuero Previsional", float64(2024), float64(2), "doc-123"},
		{"", float64(2024), float64(3), "doc-999"}, // incomplete, skipped
	}

	stats, errs := ParseSheet(context.Background(), client, "indice", rows, zap.NewNop())
	require.Empty(t, errs)
	require.Len(t, stats, 1)

	assert.Equal(t, "PREVISIONAL", stats[0].DependencyName)
	assert.Equal(t, "202402", stats[0].Period)
	assert.Equal(t, 1500, stats[0].Existentes)
	assert.Equal(t, 300, stats[0].Recibidos)
	assert.Equal(t, "doc-123", stats[0].SourceID)
	assert.Equal(t, models.SourceKindReference, stats[0].SourceKind)
	client.AssertExpectations(t)
}

func TestParseSheet_ReferenceTableCollectsFetchErrors(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetValues", mock.Anything, "doc-bad", referencedDocRange).
		Return(nil, assert.AnError)
	client.On("GetValues", mock.Anything, "doc-ok", referencedDocRange).Return([][]any{
		{"II. EXPEDIENTES RECIBIDOS", float64(42)},
	}, nil)

	rows := [][]any{
		{"Plantilla", "Anio", "Mes", "Id_Confirmado"},
		{"Penal", float64(2024), float64(1), "doc-bad"},
		{"Laboral", float64(2024), float64(1), "doc-ok"},
	}

	stats, errs := ParseSheet(context.Background(), client, "indice", rows, zap.NewNop())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "doc-bad")
	require.Len(t, stats, 1)
	assert.Equal(t, "LABORAL", stats[0].DependencyName)
}

func TestParseSheet_UnknownLayoutYieldsNothing(t *testing.T) {
	client := new(mocks.Client)
	rows := [][]any{{"Foo", "Bar"}, {"x", "y"}}

	stats, errs := ParseSheet(context.Background(), client, "misc", rows, zap.NewNop())
	assert.Empty(t, stats)
	assert.Empty(t, errs)
}

func TestInferTemplateLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Planilla Fuero Previsional 2024", "PREVISIONAL"},
		{"Estadística CIVIL mensual", "CIVIL Y COMERCIAL"},
		{"Plantilla Fuero PENAL", "PENAL"},
		{"Contencioso Administrativo Federal", "CONTENCIOSO ADMINISTRATIVO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferTemplateLabel(tt.in), tt.in)
	}

	long := "Plantilla sin fuero reconocible que excede holgadamente los cincuenta caracteres permitidos"
	label := inferTemplateLabel(long)
	assert.Len(t, []rune(label), 50)

	short := "Otra cosa"
	assert.Equal(t, short, inferTemplateLabel(short))
}
