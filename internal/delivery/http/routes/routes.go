package routes

import (
	"jobfinder/internal/delivery/http/handler"
	"jobfinder/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Registry wires the origin server's handlers. Health and the dataset are registered
// before the client middleware so probes and the offline worker never mint client ids.
// Static assets come last since they match every remaining path.
type Registry struct {
	Health      *handler.HealthHandler
	Jobs        *handler.JobsHandler
	Preferences *handler.PreferencesHandler
	Page        *handler.PageHandler
	Dataset     *handler.DatasetHandler
	Static      *handler.StaticHandler
	Client      *middleware.ClientMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	r.Dataset.RegisterRoutes(app)

	client := r.Client
	if client == nil {
		client = middleware.NewClientMiddleware(false)
	}
	app.Use(client.Middleware())

	r.registerAPI(app)
	r.Page.RegisterRoutes(app)

	if r.Static != nil {
		r.Static.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api").Group("/v1")
	r.Jobs.RegisterRoutes(v1)
	r.Preferences.RegisterRoutes(v1)
}
