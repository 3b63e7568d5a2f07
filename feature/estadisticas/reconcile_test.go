package estadisticas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pjstats/feature/estadisticas/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Dependencia{}, &models.Estadistica{}))
	return db
}

func sampleStat() models.ParsedStatistic {
	return models.ParsedStatistic{
		DependencyName: "Juzgado Federal N 1",
		Period:         "03/2024",
		Existentes:     1500,
		Recibidos:      300,
		Reingresados:   5,
		Resueltos:      250,
		SourceKind:     models.SourceKindConsolidated,
		SourceID:       "sheet-42",
	}
}

func TestReconcile_InsertThenUpdate(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())
	ctx := context.Background()

	inserted, err := r.Reconcile(ctx, sampleStat())
	require.NoError(t, err)
	assert.True(t, inserted)

	second := sampleStat()
	second.Recibidos = 310
	inserted, err = r.Reconcile(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, db.Model(&models.Estadistica{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var row models.Estadistica
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "202403", row.Periodo)
	assert.Equal(t, 310, row.Recibidos)
	assert.Equal(t, 1500, row.Existentes)
}

func TestReconcile_CreatesDependencyWithInferredType(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	_, err := r.Reconcile(context.Background(), sampleStat())
	require.NoError(t, err)

	var dep models.Dependencia
	require.NoError(t, db.First(&dep).Error)
	assert.Equal(t, "JUZGADO FEDERAL N 1", dep.Nombre)
	assert.Equal(t, "JUZGADO_FEDERAL", dep.Tipo)
}

func TestReconcile_NameVariantsShareDependency(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())
	ctx := context.Background()

	first := sampleStat()
	first.DependencyName = "  juzgado   federal n 1 "
	_, err := r.Reconcile(ctx, first)
	require.NoError(t, err)

	second := sampleStat()
	second.Period = "04/2024"
	_, err = r.Reconcile(ctx, second)
	require.NoError(t, err)

	var deps int64
	require.NoError(t, db.Model(&models.Dependencia{}).Count(&deps).Error)
	assert.Equal(t, int64(1), deps)

	var stats int64
	require.NoError(t, db.Model(&models.Estadistica{}).Count(&stats).Error)
	assert.Equal(t, int64(2), stats)
}

func TestReconcile_AcceptsPeriodEncodings(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		period string
		want   string
	}{
		{"202403", "202403"},
		{"03/2024", "202403"},
		{"2024-3", "202403"},
	}
	for _, tc := range cases {
		stat := sampleStat()
		stat.Period = tc.period
		_, err := r.Reconcile(ctx, stat)
		require.NoError(t, err, tc.period)

		var row models.Estadistica
		require.NoError(t, db.Where("periodo = ?", tc.want).First(&row).Error, tc.period)
	}
}

func TestReconcile_InvalidPeriod(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	stat := sampleStat()
	stat.Period = "13/2024"
	_, err := r.Reconcile(context.Background(), stat)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestReconcile_MissingDependencyName(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())

	stat := sampleStat()
	stat.DependencyName = "   "
	_, err := r.Reconcile(context.Background(), stat)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestIsReconciled(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())
	ctx := context.Background()

	synced, err := r.IsReconciled(ctx, "Juzgado Federal N 1", "202403")
	require.NoError(t, err)
	assert.False(t, synced)

	_, err = r.Reconcile(ctx, sampleStat())
	require.NoError(t, err)

	synced, err = r.IsReconciled(ctx, "juzgado federal n 1", "202403")
	require.NoError(t, err)
	assert.True(t, synced)

	synced, err = r.IsReconciled(ctx, "juzgado federal n 1", "202404")
	require.NoError(t, err)
	assert.False(t, synced)
}

// setupMockDB creates a mock GORM DB for testing error paths.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, smock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gormDB, smock
}

func TestReconcile_StoreFailuresPropagate(t *testing.T) {
	t.Run("Dependency Lookup", func(t *testing.T) {
		db, smock := setupMockDB(t)
		smock.ExpectQuery("SELECT(.*)`dependencias`").
			WillReturnError(errors.New("connection reset"))

		r := NewReconciler(db, zap.NewNop())
		_, err := r.Reconcile(context.Background(), sampleStat())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to look up dependency")
	})

	t.Run("Statistic Lookup", func(t *testing.T) {
		db, smock := setupMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "nombre", "tipo"}).
			AddRow(1, "JUZGADO FEDERAL N 1", "JUZGADO_FEDERAL")
		smock.ExpectQuery("SELECT(.*)`dependencias`").WillReturnRows(rows)
		smock.ExpectQuery("SELECT(.*)`estadisticas`").
			WillReturnError(errors.New("connection reset"))

		r := NewReconciler(db, zap.NewNop())
		_, err := r.Reconcile(context.Background(), sampleStat())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to look up statistic")
	})
}

func TestIsSourceSynced(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db, zap.NewNop())
	ctx := context.Background()

	synced, err := r.IsSourceSynced(ctx, "sheet-42")
	require.NoError(t, err)
	assert.False(t, synced)

	_, err = r.Reconcile(ctx, sampleStat())
	require.NoError(t, err)

	synced, err = r.IsSourceSynced(ctx, "sheet-42")
	require.NoError(t, err)
	assert.True(t, synced)
}
