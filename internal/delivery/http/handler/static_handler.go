package handler

import (
	"io/fs"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// StaticHandler serves the page shell: index.html, the stylesheet and the script.
type StaticHandler struct {
	fsys fs.FS
}

func NewStaticHandler(fsys fs.FS) *StaticHandler {
	return &StaticHandler{fsys: fsys}
}

// RegisterRoutes must run last; it matches every remaining GET.
func (h *StaticHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/*", static.New("", static.Config{
		FS:            h.fsys,
		IndexNames:    []string{"index.html"},
		CacheDuration: -1,
	}))
}
