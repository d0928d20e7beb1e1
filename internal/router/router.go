package router

import (
	"net/url"
	"strings"
)

type Name string

const (
	Home   Name = "home"
	Detail Name = "job-detail"
	Saved  Name = "saved"
	About  Name = "about"
)

type Route struct {
	Name  Name
	JobID string
}

// Resolve maps a URL fragment such as "#/job/42" to a Route. Unknown fragments resolve
// to Home.
func Resolve(fragment string) Route {
	p := strings.TrimSpace(fragment)
	p = strings.TrimPrefix(p, "#")
	if i := strings.IndexAny(p, "?"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")

	switch {
	case p == "/":
		return Route{Name: Home}
	case p == "/saved":
		return Route{Name: Saved}
	case p == "/about":
		return Route{Name: About}
	case strings.HasPrefix(p, "/job/"):
		raw := strings.TrimPrefix(p, "/job/")
		if raw == "" || strings.Contains(raw, "/") {
			return Route{Name: Home}
		}
		id, err := url.PathUnescape(raw)
		if err != nil || strings.TrimSpace(id) == "" {
			return Route{Name: Home}
		}
		return Route{Name: Detail, JobID: id}
	default:
		return Route{Name: Home}
	}
}

func (r Route) Fragment() string {
	switch r.Name {
	case Detail:
		return "#/job/" + url.PathEscape(r.JobID)
	case Saved:
		return "#/saved"
	case About:
		return "#/about"
	default:
		return "#/"
	}
}
