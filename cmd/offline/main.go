package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobfinder/internal/app"
	"jobfinder/internal/config"
	"jobfinder/internal/offline"

	"github.com/cheggaaa/pb/v3"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.LoadOffline()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	manifest, err := config.LoadManifest(cfg.Offline.ManifestPath)
	if err != nil {
		logger.Fatalf("failed to load manifest: %v", err)
	}

	bar := pb.New(len(manifest.Assets))
	bar.SetWriter(os.Stderr)
	bar.Set("prefix", "precache ")

	proxy, err := app.NewOffline(cfg, manifest, logger, offline.WithPrecacheProgress(func(key string, err error) {
		if err != nil {
			logger.Printf("[Offline] precache failed | key=%s error=%v", key, err)
		}
		bar.Increment()
	}))
	if err != nil {
		logger.Fatalf("failed to build offline proxy: %v", err)
	}
	defer func() {
		if err := proxy.Close(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go proxy.Hub.Run(ctx)

	addr, err := app.ListenAddr(cfg.Offline.HTTPPort)
	if err != nil {
		logger.Fatalf("invalid offline port: %v", err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- proxy.Fiber.Listen(addr)
	}()

	// Until the worker is active every request passes straight through to the origin.
	bar.Start()
	startErr := proxy.Worker.Start(ctx)
	bar.Finish()
	if startErr != nil {
		logger.Printf("[Offline] worker not active, serving pass-through | error=%v", startErr)
	}

	select {
	case err := <-errCh:
		if err != nil {
			logger.Printf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := proxy.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Printf("shutdown error: %v", err)
		}
	}
}
