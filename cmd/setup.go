package cmd

import (
	"context"
	"fmt"

	"pjstats/core/config"
	"pjstats/core/database"
	"pjstats/core/logger"
	"pjstats/core/sheets"
	"pjstats/core/storage"
	"pjstats/feature/estadisticas"
	"pjstats/feature/estadisticas/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// appContext bundles the wired application components shared by the server
// and the CLI sync commands.
type appContext struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	limiter *sheets.RateLimiter
	service *estadisticas.Service
}

// setupApp loads configuration and wires the full sync stack. The store and
// the sheets API are both required; a missing credential is a fatal
// configuration problem, not a partial-run condition.
func setupApp(ctx context.Context) (*appContext, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	if err := db.AutoMigrate(&models.Dependencia{}, &models.Estadistica{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	limiter := sheets.NewRateLimiter(cfg.Sheets.RequestsPerMinute)
	client, err := sheets.NewClient(ctx, cfg.Sheets, limiter, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	var store storage.Client
	if cfg.Storage.Enabled {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			// The archive is best-effort; a dead endpoint must not block syncing.
			logg.Warn("Snapshot archive unavailable", zap.Error(err))
			store = nil
		}
	}

	service := estadisticas.NewService(client, limiter, cfg.Sheets.SpreadsheetID, db, store, cfg.Storage.Bucket, logg)

	return &appContext{
		cfg:     cfg,
		logger:  logg,
		db:      db,
		limiter: limiter,
		service: service,
	}, nil
}
