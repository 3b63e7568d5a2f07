package estadisticas

import (
	"context"
	"errors"
	"fmt"

	"pjstats/feature/estadisticas/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMissingDependency marks a record without a usable dependency name.
var ErrMissingDependency = errors.New("missing dependency name")

// Reconciler maps parsed statistics onto the (dependency, period) key and
// performs idempotent create-or-update operations against the store.
type Reconciler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReconciler creates a reconciler bound to the statistics store.
func NewReconciler(db *gorm.DB, logger *zap.Logger) *Reconciler {
	return &Reconciler{db: db, logger: logger}
}

// Reconcile persists one parsed statistic. The dependency is created on
// first sight of its normalized name; the statistic row is inserted when the
// (dependencyID, period) key is new and overwritten in place otherwise.
// Calling it twice with identical input leaves exactly one row behind.
func (r *Reconciler) Reconcile(ctx context.Context, stat models.ParsedStatistic) (inserted bool, err error) {
	name := NormalizeDependencyName(stat.DependencyName)
	if name == "" {
		return false, ErrMissingDependency
	}

	// Parsed records may carry the period in any of the supported cell
	// encodings, not just YYYYMM.
	raw := stat.Period
	if p, ok := parsePeriodCell(raw); ok {
		raw = p
	}
	period, err := NormalizePeriod(raw)
	if err != nil {
		return false, fmt.Errorf("period %q: %w", stat.Period, err)
	}

	dep, err := r.findOrCreateDependency(ctx, name)
	if err != nil {
		return false, err
	}

	var existing models.Estadistica
	result := r.db.WithContext(ctx).
		Where("dependencia_id = ? AND periodo = ?", dep.ID, period).
		First(&existing)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to look up statistic: %w", result.Error)
		}

		record := models.Estadistica{
			DependenciaID:    dep.ID,
			Periodo:          period,
			Existentes:       stat.Existentes,
			Recibidos:        stat.Recibidos,
			Reingresados:     stat.Reingresados,
			Resueltos:        stat.Resueltos,
			Categorias:       stat.Categories,
			JuezNombre:       stat.Judge,
			SecretarioNombre: stat.Secretary,
			FuenteKind:       stat.SourceKind,
			FuenteID:         stat.SourceID,
		}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return false, fmt.Errorf("failed to insert statistic: %w", err)
		}
		r.logger.Debug("Inserted statistic",
			zap.String("dependencia", name), zap.String("periodo", period))
		return true, nil
	}

	// Overwrite all mutable fields in place; identity fields stay untouched.
	existing.Existentes = stat.Existentes
	existing.Recibidos = stat.Recibidos
	existing.Reingresados = stat.Reingresados
	existing.Resueltos = stat.Resueltos
	existing.Categorias = stat.Categories
	existing.JuezNombre = stat.Judge
	existing.SecretarioNombre = stat.Secretary
	existing.FuenteKind = stat.SourceKind
	existing.FuenteID = stat.SourceID

	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to update statistic: %w", err)
	}
	r.logger.Debug("Updated statistic",
		zap.String("dependencia", name), zap.String("periodo", period))
	return false, nil
}

// findOrCreateDependency looks up a dependency by normalized name, creating
// it with an inferred type when absent.
func (r *Reconciler) findOrCreateDependency(ctx context.Context, name string) (*models.Dependencia, error) {
	var dep models.Dependencia
	err := r.db.WithContext(ctx).Where("nombre = ?", name).First(&dep).Error
	if err == nil {
		return &dep, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up dependency: %w", err)
	}

	dep = models.Dependencia{
		Nombre: name,
		Tipo:   InferDependencyType(name),
	}
	if err := r.db.WithContext(ctx).Create(&dep).Error; err != nil {
		return nil, fmt.Errorf("failed to create dependency %q: %w", name, err)
	}
	r.logger.Info("Created dependency",
		zap.String("nombre", name), zap.String("tipo", dep.Tipo))
	return &dep, nil
}

// IsReconciled reports whether a statistic already exists for the given
// dependency name and period.
func (r *Reconciler) IsReconciled(ctx context.Context, dependencyName, period string) (bool, error) {
	name := NormalizeDependencyName(dependencyName)

	var dep models.Dependencia
	err := r.db.WithContext(ctx).Where("nombre = ?", name).First(&dep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&models.Estadistica{}).
		Where("dependencia_id = ? AND periodo = ?", dep.ID, period).
		Count(&count).Error
	return count > 0, err
}

// IsSourceSynced reports whether any statistic originated from the given
// source document.
func (r *Reconciler) IsSourceSynced(ctx context.Context, sourceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Estadistica{}).
		Where("fuente_id = ?", sourceID).
		Count(&count).Error
	return count > 0, err
}
