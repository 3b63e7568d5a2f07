package estadisticas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pjstats/core/sheets"
	"pjstats/core/storage"
	"pjstats/feature/estadisticas/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service orchestrates the sync pipeline: discovery, fetch, parse and
// per-record reconciliation. Sheets and rows are processed strictly in
// order; correctness here means respecting the shared API rate limit, not
// maximizing throughput.
type Service struct {
	client        sheets.Client
	limiter       *sheets.RateLimiter
	spreadsheetID string
	reconciler    *Reconciler
	archive       *snapshotArchive
	logger        *zap.Logger
}

// NewService creates the sync service. A nil store disables snapshot
// archiving.
func NewService(client sheets.Client, limiter *sheets.RateLimiter, spreadsheetID string, db *gorm.DB, store storage.Client, bucket string, logger *zap.Logger) *Service {
	s := &Service{
		client:        client,
		limiter:       limiter,
		spreadsheetID: spreadsheetID,
		reconciler:    NewReconciler(db, logger),
		logger:        logger,
	}
	if store != nil {
		s.archive = newSnapshotArchive(store, bucket, logger)
	}
	return s
}

// Run executes a full sync. When sheetNames is empty, discovery supplies the
// set of valid sheets. Per-sheet and per-record failures are collected into
// the result; only discovery itself (credentials, workbook access) aborts
// the run.
func (s *Service) Run(ctx context.Context, sheetNames []string) (*models.SyncRunResult, error) {
	start := time.Now()
	result := &models.SyncRunResult{
		RunID:  uuid.NewString(),
		Errors: []string{},
	}

	// Backoff state from a previous run must not throttle this one.
	s.limiter.Reset()

	targets := sheetNames
	if len(targets) == 0 {
		infos, err := ListValidSheets(ctx, s.client, s.spreadsheetID, s.logger)
		if err != nil {
			return nil, err
		}
		targets = make([]string, 0, len(infos))
		for _, info := range infos {
			targets = append(targets, info.Title)
		}
	}

	s.logger.Info("Sync run started",
		zap.String("run_id", result.RunID), zap.Int("sheets", len(targets)))

	for _, title := range targets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		rows, err := s.client.GetValues(ctx, s.spreadsheetID, DataRange(title))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sheet %s: fetch failed: %v", title, err))
			continue
		}

		s.archive.Store(ctx, result.RunID, title, rows)

		stats, parseErrs := ParseSheet(ctx, s.client, title, rows, s.logger)
		result.Errors = append(result.Errors, parseErrs...)

		for _, stat := range stats {
			result.Processed++
			inserted, err := s.reconciler.Reconcile(ctx, stat)
			if err != nil {
				if errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrMissingDependency) {
					result.Skipped++
					continue
				}
				result.Errors = append(result.Errors,
					fmt.Sprintf("record %s/%s: %v", stat.DependencyName, stat.Period, err))
				continue
			}
			if inserted {
				result.Inserted++
			} else {
				result.Updated++
			}
		}

		s.logger.Info("Sheet reconciled",
			zap.String("sheet", title), zap.Int("records", len(stats)))
	}

	result.ExecutionTime = time.Since(start).String()
	s.logger.Info("Sync run completed",
		zap.String("run_id", result.RunID),
		zap.Int("processed", result.Processed),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
		zap.String("duration", result.ExecutionTime))
	return result, nil
}

// SyncSingleSheet ingests one already-known referenced document out of band.
// It pre-checks whether the (dependency, period) pair is already reconciled
// to avoid redundant fetches.
func (s *Service) SyncSingleSheet(ctx context.Context, sourceID, period, dependencyName string) *models.SingleSheetResult {
	raw := period
	if p, ok := parsePeriodCell(raw); ok {
		raw = p
	}
	normalizedPeriod, err := NormalizePeriod(raw)
	if err != nil {
		return &models.SingleSheetResult{
			Success: false,
			Message: fmt.Sprintf("invalid period %q", period),
		}
	}

	name := NormalizeDependencyName(dependencyName)
	if name == "" {
		return &models.SingleSheetResult{Success: false, Message: "dependency name is required"}
	}

	already, err := s.reconciler.IsReconciled(ctx, name, normalizedPeriod)
	if err != nil {
		return &models.SingleSheetResult{Success: false, Message: fmt.Sprintf("store lookup failed: %v", err)}
	}
	if already {
		return &models.SingleSheetResult{
			Success: true,
			Message: fmt.Sprintf("%s %s is already synced", name, normalizedPeriod),
		}
	}

	rows, err := s.client.GetValues(ctx, sourceID, referencedDocRange)
	if err != nil {
		return &models.SingleSheetResult{Success: false, Message: fmt.Sprintf("fetch failed: %v", err)}
	}

	detail := parseDetailDocument(rows)
	stat := models.ParsedStatistic{
		DependencyName: name,
		Period:         normalizedPeriod,
		Existentes:     detail.Existentes,
		Recibidos:      detail.Recibidos,
		Reingresados:   detail.Reingresados,
		Categories:     detail.Categories,
		SourceID:       sourceID,
		SourceKind:     models.SourceKindReference,
		Judge:          detail.Judge,
		Secretary:      detail.Secretary,
	}

	inserted, err := s.reconciler.Reconcile(ctx, stat)
	if err != nil {
		return &models.SingleSheetResult{Success: false, Message: fmt.Sprintf("reconcile failed: %v", err)}
	}

	verb := "updated"
	if inserted {
		verb = "inserted"
	}
	return &models.SingleSheetResult{
		Success: true,
		Message: fmt.Sprintf("%s %s %s", verb, name, normalizedPeriod),
	}
}

// IsSheetAlreadySynced reports whether any statistic originated from the
// given source document.
func (s *Service) IsSheetAlreadySynced(ctx context.Context, sourceID string) (bool, error) {
	return s.reconciler.IsSourceSynced(ctx, sourceID)
}

// TestConnection verifies the sheets API credentials and workbook access.
func (s *Service) TestConnection(ctx context.Context) bool {
	if err := s.client.TestConnection(ctx); err != nil {
		s.logger.Warn("Sheets connection test failed", zap.Error(err))
		return false
	}
	return true
}
