package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	ClientCookieName = "jf_client"
	ClientHeader     = "X-Client-ID"
	CtxClientIDKey   = "client_id"

	clientCookieMaxAge = 365 * 24 * time.Hour
)

// ClientMiddleware identifies the browser or terminal client that owns saved jobs and
// theme. A valid X-Client-ID header wins over the cookie; a request with neither gets
// a fresh id and a cookie.
type ClientMiddleware struct {
	secure bool
}

func NewClientMiddleware(secureCookie bool) *ClientMiddleware {
	return &ClientMiddleware{secure: secureCookie}
}

func (m *ClientMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := parseClientID(c.Get(ClientHeader))
		if !ok {
			id, ok = parseClientID(c.Cookies(ClientCookieName))
		}
		if !ok {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ClientCookieName,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(clientCookieMaxAge),
				HTTPOnly: true,
				Secure:   m.secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(CtxClientIDKey, id)
		return c.Next()
	}
}

func parseClientID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// ClientID returns the id set by ClientMiddleware.
func ClientID(c fiber.Ctx) (string, bool) {
	id, ok := c.Locals(CtxClientIDKey).(string)
	return id, ok && id != ""
}
