package handler

import (
	"bytes"

	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/router"
	"jobfinder/internal/session"
	"jobfinder/internal/usecase"
	"jobfinder/internal/view"

	"github.com/gofiber/fiber/v3"
)

// PageHandler renders the view for a fragment on the server, so the page script only
// swaps markup.
type PageHandler struct {
	stores   usecase.StoreProvider
	prefs    *usecase.Preferences
	renderer view.Renderer
}

func NewPageHandler(stores usecase.StoreProvider, prefs *usecase.Preferences, renderer view.Renderer) *PageHandler {
	return &PageHandler{stores: stores, prefs: prefs, renderer: renderer}
}

func (h *PageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/view", h.HandleView)
}

func (h *PageHandler) HandleView(c fiber.Ctx) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}
	prefs, err := h.prefs.Adapter(id)
	if err != nil {
		return mapUsecaseError(err)
	}
	params, err := ParseListParams(c)
	if err != nil {
		return middleware.BadRequest("", err)
	}

	route := router.Resolve(c.Query("fragment", "#/"))
	m := session.BuildModel(c.Context(), h.stores.Store(c.Context()), prefs, route, params.State())

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, m); err != nil {
		return middleware.Internal(err)
	}
	c.Set("X-Route", string(route.Name))
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
