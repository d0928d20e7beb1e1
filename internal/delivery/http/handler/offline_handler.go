package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/offline"
	"jobfinder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const OfflineStatusPath = "/__offline/status"

// OfflineWorker is the part of offline.Worker the proxy needs.
type OfflineWorker interface {
	Fetch(ctx context.Context, req offline.Request) (*offline.Response, error)
	Status(ctx context.Context) (offline.Status, error)
}

// OfflineHandler is the caching proxy: every request it does not own goes through the
// worker's fetch policy.
type OfflineHandler struct {
	worker OfflineWorker
	logger *log.Logger
}

func NewOfflineHandler(worker OfflineWorker, logger *log.Logger) *OfflineHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &OfflineHandler{worker: worker, logger: logger}
}

// RegisterRoutes must run after every other route, since the proxy matches all paths.
func (h *OfflineHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get(OfflineStatusPath, h.HandleStatus)
	r.All("/*", h.HandleProxy)
}

func (h *OfflineHandler) HandleStatus(c fiber.Ctx) error {
	st, err := h.worker.Status(c.Context())
	if err != nil {
		return middleware.Internal(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func (h *OfflineHandler) HandleProxy(c fiber.Ctx) error {
	req := offline.Request{
		Method: c.Method(),
		URL:    c.OriginalURL(),
		Header: http.Header(c.GetReqHeaders()),
		Body:   c.Body(),
	}

	resp, err := h.worker.Fetch(c.Context(), req)
	if err != nil {
		if errors.Is(err, offline.ErrFetchFailed) {
			h.logger.Printf("[Offline] request failed | method=%s key=%s error=%v", req.Method, req.Key(), err)
			c.Set("X-Cache", "MISS")
			return c.Status(fiber.StatusGatewayTimeout).SendString("offline and not cached: " + req.Key())
		}
		return middleware.Internal(err)
	}

	return writeOfflineResponse(c, resp)
}

var skipResponseHeaders = map[string]struct{}{
	"Content-Length":    {},
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Upgrade":           {},
}

func writeOfflineResponse(c fiber.Ctx, resp *offline.Response) error {
	for k, vs := range resp.Header {
		if _, skip := skipResponseHeaders[http.CanonicalHeaderKey(k)]; skip {
			continue
		}
		if http.CanonicalHeaderKey(k) == "Set-Cookie" {
			for _, v := range vs {
				c.Response().Header.Add(k, v)
			}
			continue
		}
		c.Set(k, strings.Join(vs, ", "))
	}
	if resp.FromCache {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	status := resp.Status
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).Send(resp.Body)
}
