package handler

import (
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/jobstore"

	"github.com/gofiber/fiber/v3"
)

const DatasetPath = "/data/jobs.json"

// DatasetHandler serves the raw job dataset document at DatasetPath. The document is
// read from the source on every request so the offline worker sees fresh data.
type DatasetHandler struct {
	src jobstore.Source
}

func NewDatasetHandler(src jobstore.Source) *DatasetHandler {
	return &DatasetHandler{src: src}
}

func (h *DatasetHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get(DatasetPath, h.Handle)
}

func (h *DatasetHandler) Handle(c fiber.Ctx) error {
	b, err := h.src.Fetch(c.Context())
	if err != nil {
		return middleware.Internal(err)
	}
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("json", "utf-8")
	return c.Send(b)
}
