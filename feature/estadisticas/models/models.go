package models

import "time"

// Dependencia is a judicial entity (court, chamber or office) that
// statistics are attributed to. Created on first sight of a normalized
// name and never deleted by the sync engine.
type Dependencia struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Nombre is the normalized (trimmed, collapsed, uppercased) name.
	Nombre string `gorm:"uniqueIndex;size:255;not null" json:"nombre"`
	// Tipo is the inferred entity type (JUZGADO FEDERAL, TRIBUNAL, ... or OTRO).
	Tipo      string    `gorm:"size:64" json:"tipo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (Dependencia) TableName() string {
	return "dependencias"
}

// Estadistica holds the monthly case counts for one dependency.
// The composite unique index on (dependencia_id, periodo) is the uniqueness
// invariant the reconciliation engine upholds across repeated runs.
type Estadistica struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	DependenciaID uint   `gorm:"uniqueIndex:idx_dependencia_periodo;not null" json:"dependencia_id"`
	Periodo       string `gorm:"uniqueIndex:idx_dependencia_periodo;size:6;not null" json:"periodo"`

	Existentes   int `json:"existentes"`
	Recibidos    int `json:"recibidos"`
	Reingresados int `json:"reingresados"`
	Resueltos    int `json:"resueltos"`

	// Categorias is the per-category breakdown, stored as JSON.
	Categorias CategoryMap `gorm:"serializer:json;type:text" json:"categorias"`

	JuezNombre       string `gorm:"size:255" json:"juez_nombre,omitempty"`
	SecretarioNombre string `gorm:"size:255" json:"secretario_nombre,omitempty"`

	// FuenteKind records which parse path produced the row (consolidated or reference).
	FuenteKind string `gorm:"size:32" json:"fuente_kind"`
	// FuenteID is the source spreadsheet or sheet identifier.
	FuenteID string `gorm:"size:128;index" json:"fuente_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (Estadistica) TableName() string {
	return "estadisticas"
}

// CategoryCount holds the per-category line item counts.
type CategoryCount struct {
	Asignados    int `json:"asignados"`
	Reingresados int `json:"reingresados"`
}

// CategoryMap maps category name to its counts. Insertion order is not
// significant.
type CategoryMap map[string]CategoryCount

// ParsedStatistic is the transient output of the parsers, consumed
// immediately by reconciliation. DependencyName and Period may still be
// un-normalized here.
type ParsedStatistic struct {
	DependencyName string      `json:"dependency_name"`
	Period         string      `json:"period"`
	Existentes     int         `json:"existentes"`
	Recibidos      int         `json:"recibidos"`
	Reingresados   int         `json:"reingresados"`
	Resueltos      int         `json:"resueltos"`
	Categories     CategoryMap `json:"categories,omitempty"`

	SourceID   string `json:"source_id"`
	SourceKind string `json:"source_kind"`
	Judge      string `json:"judge,omitempty"`
	Secretary  string `json:"secretary,omitempty"`
}

// Source kinds recorded on persisted statistics.
const (
	SourceKindConsolidated = "consolidated"
	SourceKindReference    = "reference"
)

// SyncRunResult aggregates one orchestrator invocation. It is returned to
// the caller and never persisted.
type SyncRunResult struct {
	RunID         string   `json:"run_id"`
	Processed     int      `json:"processed"`
	Inserted      int      `json:"inserted"`
	Updated       int      `json:"updated"`
	Skipped       int      `json:"skipped"`
	Errors        []string `json:"errors"`
	ExecutionTime string   `json:"execution_time"`
}

// SingleSheetResult reports the outcome of an out-of-band single-sheet sync.
type SingleSheetResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
