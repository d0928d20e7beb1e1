package ws

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

const Path = "/ws"

type Handler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get(Path, h.HandleEvents)
}

// HandleEvents subscribes a page to worker events. A page that connects after
// activation is told the current controller right away.
func (h *Handler) HandleEvents(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("[WS] upgrade failed | remote=%s error=%v", r.RemoteAddr, err)
			return
		}

		client := NewClient(h.hub, conn)
		if v := h.hub.Controller(); v != "" {
			if b, ok := encodeEvent(EventControllerChange, v, ""); ok {
				client.send <- b
			}
		}
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

// sameOrigin accepts requests without an Origin header (non-browser clients) and
// browser requests whose Origin host matches the requested host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
