package offline

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

type Policy int

const (
	CacheFirst Policy = iota
	NetworkFirst
)

func (p Policy) String() string {
	if p == NetworkFirst {
		return "network-first"
	}
	return "cache-first"
}

// Request describes an intercepted request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// Key is the bucket key for the request: its path and query, without scheme or host.
func (r Request) Key() string {
	return CacheKey(r.URL)
}

// CacheKey normalizes a URL or manifest path ("./css/style.css") to a bucket key
// ("/css/style.css"). "./" and "" both map to the root document "/".
func CacheKey(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, ".")

	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	p := u.Path
	if p == "" || p == "/" {
		p = "/"
	} else {
		p = path.Clean("/" + p)
	}
	if u.RawQuery != "" {
		return p + "?" + u.RawQuery
	}
	return p
}

// Router picks the policy for a request.
type Router func(Request) Policy

// PathSuffixRouter routes requests whose path ends in one of the given suffixes
// network-first and everything else cache-first.
func PathSuffixRouter(networkFirst ...string) Router {
	suffixes := make([]string, 0, len(networkFirst))
	for _, s := range networkFirst {
		s = strings.TrimSpace(strings.TrimPrefix(s, "."))
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}
	return func(r Request) Policy {
		p := r.URL
		if u, err := url.Parse(r.URL); err == nil {
			p = u.Path
		}
		for _, s := range suffixes {
			if strings.HasSuffix(p, s) {
				return NetworkFirst
			}
		}
		return CacheFirst
	}
}
