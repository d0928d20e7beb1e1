package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNetwork marks a transport failure. An HTTP error status is a response, not an
// ErrNetwork.
var ErrNetwork = errors.New("network error")

type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

type FetcherFunc func(ctx context.Context, req Request) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// hopHeaders are connection-scoped and never forwarded.
var hopHeaders = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade",
}

type HTTPFetcher struct {
	origin *url.URL
	client *http.Client
	logger *log.Logger
}

func NewHTTPFetcher(originURL string, timeout time.Duration, logger *log.Logger) (*HTTPFetcher, error) {
	originURL = strings.TrimSpace(originURL)
	if originURL == "" {
		return nil, errors.New("empty origin url")
	}
	u, err := url.Parse(strings.TrimRight(originURL, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin url must be absolute: %q", originURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPFetcher{origin: u, client: &http.Client{Timeout: timeout}, logger: logger}, nil
}

func (f *HTTPFetcher) resolve(raw string) string {
	key := CacheKey(raw)
	return f.origin.String() + key
}

func (f *HTTPFetcher) Fetch(ctx context.Context, r Request) (*Response, error) {
	if f == nil || f.client == nil {
		return nil, errors.New("nil http fetcher")
	}
	endpoint := f.resolve(r.URL)

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method(), endpoint, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	req.Header.Del("Host")
	// Bodies are cached and replayed to any client, so they are always stored decoded.
	req.Header.Del("Accept-Encoding")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Printf("[Offline] network fetch failed | url=%s error=%v", endpoint, err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	h := resp.Header.Clone()
	for _, hh := range hopHeaders {
		h.Del(hh)
	}
	return &Response{URL: CacheKey(r.URL), Status: resp.StatusCode, Header: h, Body: b}, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
