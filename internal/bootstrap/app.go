package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/config"
	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/infrastructure/daylio"
	infradb "github.com/mohammadpnp/moodjournal-import/internal/infrastructure/db"
	"github.com/mohammadpnp/moodjournal-import/internal/infrastructure/repository"
	"gorm.io/gorm"
)

// App holds the wired import pipeline shared by the server and the CLI.
type App struct {
	Worker      *app.ImportWorker
	StartImport app.StartBackupImport
	GetJob      app.GetImportJob

	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
	pool   *pgxpool.Pool
}

func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database url is required")
	}

	db, err := infradb.Open(cfg.Database.Driver, cfg.Database.URL, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := infradb.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	a := &App{cfg: cfg, logger: logger, db: db}

	var contents domain.EntryContentFinder
	if cfg.Database.Driver == infradb.DriverSQLite {
		contents = repository.NewGormEntryContentRepository(db)
	} else {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		a.pool = pool
		contents = repository.NewEntryContentRepository(pool)
	}

	registry := repository.NewImportJobRegistry(repository.ImportJobRegistryConfig{
		Retention:   cfg.Import.JobRetention,
		MaxRetained: cfg.Import.MaxRetainedJobs,
	})

	a.Worker = app.NewImportWorker(app.ImportWorkerDeps{
		Jobs:       registry,
		Decoder:    daylio.NewDecoder(),
		Categories: repository.NewCategoryRepository(db),
		Entries:    repository.NewMoodEntryRepository(db),
		Contents:   contents,
	}, app.ImportWorkerConfig{
		Workers:      cfg.Import.Workers,
		PollInterval: cfg.Import.PollInterval,
	}, logger)
	a.StartImport = app.NewStartBackupImport(registry)
	a.GetJob = app.NewGetImportJob(registry)

	return a, nil
}

func (a *App) HTTPServer() *echo.Echo {
	return NewHTTPServer(a.cfg, a.StartImport, a.GetJob, a.logger)
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
