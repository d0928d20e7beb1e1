package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/delivery/http/handler"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/delivery/http/routes"
	"jobfinder/internal/usecase"
	"jobfinder/internal/view"
	"jobfinder/web"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the origin server on top of an existing container.
func New(c *Container) (*App, error) {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)

	renderer, err := view.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}

	jobs := usecase.NewJobListUsecase(c.Loader, c.Logger)
	prefs := usecase.NewPreferencesUsecase(c.KV, c.Loader, c.Logger)
	apply := usecase.NewApplyUsecase(jobs, c.Logger)

	reg := &routes.Registry{
		Health:      handler.NewHealthHandler(c.Loader, c.Checks...),
		Jobs:        handler.NewJobsHandler(jobs, apply),
		Preferences: handler.NewPreferencesHandler(prefs),
		Page:        handler.NewPageHandler(c.Loader, prefs, renderer),
		Dataset:     handler.NewDatasetHandler(c.Source),
		Static:      handler.NewStaticHandler(web.Assets()),
		Client:      middleware.NewClientMiddleware(c.Config.App.Environment == "production"),
	}
	reg.Register(f)

	return &App{Fiber: f, Container: c}, nil
}

// Bootstrap builds the container and the server. The returned cleanup closes backends.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	app, err := New(c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	// Populate the store up front so the first request does not pay for the load.
	go c.Loader.Store(context.Background())

	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health")
	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
