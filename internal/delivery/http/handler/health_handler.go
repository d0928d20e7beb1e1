package handler

import (
	"context"
	"time"

	"jobfinder/internal/pkg/response"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// HealthCheck probes one backing service. Name is reported in the response.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	stores usecase.StoreProvider
	checks []HealthCheck
}

func NewHealthHandler(stores usecase.StoreProvider, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{stores: stores, checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Handle)
}

type healthResponse struct {
	Jobs     int               `json:"jobs"`
	Backends map[string]string `json:"backends"`
}

// Handle reports 503 when any check fails. The job count never fails the probe: an
// empty store is a valid degraded state.
func (h *HealthHandler) Handle(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Backends: make(map[string]string, len(h.checks))}
	if h.stores != nil {
		if s := h.stores.Store(ctx); s != nil {
			res.Jobs = s.Len()
		}
	}

	status := fiber.StatusOK
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			res.Backends[chk.Name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		res.Backends[chk.Name] = "ok"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageDegraded, res)
	}
	return response.Success(c, status, response.MessageOK, res)
}
