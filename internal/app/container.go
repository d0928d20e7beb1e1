package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"jobfinder/internal/config"
	"jobfinder/internal/database"
	"jobfinder/internal/database/migration"
	dbpostgres "jobfinder/internal/database/postgres"
	"jobfinder/internal/delivery/http/handler"
	"jobfinder/internal/infrastructure/cache"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/preferences"
	"jobfinder/internal/repository"
	"jobfinder/migrations"
	"jobfinder/web"
)

// Container owns the long-lived dependencies of the origin server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Source jobstore.Source
	Loader *jobstore.Loader
	KV     preferences.KV

	Redis *cache.Redis
	DB    database.DB

	Checks []handler.HealthCheck
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	c.Source = datasetSource(cfg.Data)
	c.Loader = jobstore.NewLoader(c.Source, logger, cfg.Data.LoadDelay)

	switch cfg.Preferences.Backend {
	case config.BackendRedis:
		c.Redis = cache.NewRedis(cfg.Redis, logger)
		c.KV = c.Redis
		c.Checks = append(c.Checks, handler.HealthCheck{Name: "redis", Check: c.Redis.Ping})
	case config.BackendPostgres:
		db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		runner := migration.Runner{FS: migrationsFS(cfg.Database), Logger: logger}
		if _, err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		c.KV = repository.NewPostgresPreferenceRepository(db)
		c.Checks = append(c.Checks, handler.HealthCheck{Name: "postgres", Check: db.Ping})
	default:
		c.KV = preferences.NewMemoryKV()
	}

	logger.Printf("[App] container ready | preferences=%s dataset=%s", cfg.Preferences.Backend, datasetLabel(cfg.Data))
	return c, nil
}

func datasetSource(cfg config.DataConfig) jobstore.Source {
	if u := strings.TrimSpace(cfg.DatasetURL); u != "" {
		return jobstore.NewHTTPSource(u, &http.Client{Timeout: cfg.FetchTimeout})
	}
	if p := strings.TrimSpace(cfg.DatasetFile); p != "" {
		return jobstore.NewFileSource(p)
	}
	return jobstore.BytesSource(web.Dataset())
}

func datasetLabel(cfg config.DataConfig) string {
	if u := strings.TrimSpace(cfg.DatasetURL); u != "" {
		return u
	}
	if p := strings.TrimSpace(cfg.DatasetFile); p != "" {
		return p
	}
	return "embedded"
}

func migrationsFS(cfg config.DatabaseConfig) fs.FS {
	if dir := strings.TrimSpace(cfg.MigrationsDir); dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
