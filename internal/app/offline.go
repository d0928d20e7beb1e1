package app

import (
	"fmt"
	"log"

	"jobfinder/internal/config"
	"jobfinder/internal/delivery/http/handler"
	"jobfinder/internal/infrastructure/cache"
	"jobfinder/internal/offline"
	"jobfinder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

const offlineNamespace = "jobfinder:offline"

// Offline is the caching proxy process: a worker in front of the origin plus the hub
// that tells pages when the worker takes control.
type Offline struct {
	Fiber  *fiber.App
	Worker *offline.Worker
	Hub    *ws.Hub

	redis *cache.Redis
}

func NewOffline(cfg config.Config, m *config.Manifest, logger *log.Logger, opts ...offline.Option) (*Offline, error) {
	if logger == nil {
		logger = log.Default()
	}

	fetcher, err := offline.NewHTTPFetcher(cfg.Offline.OriginURL, cfg.Offline.FetchTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}

	o := &Offline{Hub: ws.NewHub(logger)}

	var storage offline.Storage
	switch cfg.Offline.BucketBackend {
	case config.BackendRedis:
		o.redis = cache.NewRedis(cfg.Redis, logger)
		bs, err := cache.NewBucketStore(o.redis, offlineNamespace)
		if err != nil {
			_ = o.redis.Close()
			return nil, fmt.Errorf("bucket storage: %w", err)
		}
		storage = bs
	default:
		storage = offline.NewMemoryStorage()
	}

	wcfg := offline.Config{
		Version:     m.Version,
		CachePrefix: m.CachePrefix,
		Manifest:    m.Assets,
		DataPaths:   m.DataPaths,
		Concurrency: m.Concurrency,
	}
	opts = append([]offline.Option{offline.WithLogger(logger), offline.WithClaimer(o.Hub), offline.WithRefreshNotifier(o.Hub)}, opts...)
	o.Worker = offline.NewWorker(wcfg, storage, fetcher, opts...)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName + "-offline"})
	registerGlobalMiddleware(f, logger)
	ws.NewHandler(o.Hub, logger).RegisterRoutes(f)
	handler.NewOfflineHandler(o.Worker, logger).RegisterRoutes(f)
	o.Fiber = f

	logger.Printf("[App] offline proxy ready | origin=%s bucket=%s storage=%s",
		cfg.Offline.OriginURL, o.Worker.BucketName(), cfg.Offline.BucketBackend)
	return o, nil
}

func (o *Offline) Close() error {
	if o == nil || o.redis == nil {
		return nil
	}
	return o.redis.Close()
}

