package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/router"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type HTMLRenderer struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{now: time.Now}
	t, err := template.New("view").Funcs(template.FuncMap{
		"jobHref":  func(id string) string { return router.Route{Name: router.Detail, JobID: id}.Fragment() },
		"tagQuery": func(tag string) string { return "tag=" + url.QueryEscape(tag) },
		"salary":   func(j job.Job) string { return j.SalaryText() },
		"posted":   r.posted,
		"isoDate":  func(t time.Time) string { return t.UTC().Format("2006-01-02") },
		"joinTags": func(tags []string) string { return strings.Join(tags, ",") },
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	r.tmpl = t
	return r, nil
}

func (r *HTMLRenderer) posted(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

func (r *HTMLRenderer) Render(w io.Writer, m Model) error {
	name := "home"
	switch {
	case m.NotFound():
		name = "not-found"
	case m.Route.Name == router.Detail:
		name = "detail"
	case m.Route.Name == router.Saved:
		name = "saved"
	case m.Route.Name == router.About:
		name = "about"
	}
	return r.tmpl.ExecuteTemplate(w, name, m)
}

var _ Renderer = (*HTMLRenderer)(nil)
