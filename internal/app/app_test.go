package app

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/offline"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		App:         config.AppConfig{AppName: "jobfinder", Environment: "test", HTTPPort: "0"},
		Preferences: config.PreferencesConfig{Backend: config.BackendMemory},
		Offline: config.OfflineConfig{
			BucketBackend: config.BackendMemory,
			FetchTimeout:  2 * time.Second,
		},
	}
}

func newOrigin(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	c, err := NewContainer(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	a, err := New(c)
	require.NoError(t, err)
	srv := httptest.NewServer(adaptor.FiberApp(a.Fiber))
	t.Cleanup(srv.Close)
	return a, srv
}

func get(t *testing.T, a *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := a.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestOrigin_ServesShellDataAndAPI(t *testing.T) {
	a, _ := newOrigin(t)

	for _, p := range []string{"/", "/index.html", "/css/style.css", "/js/main.js", "/data/jobs.json", "/api/v1/jobs", "/view", "/health"} {
		resp := get(t, a.Fiber, p)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
	}

	resp := get(t, a.Fiber, "/api/v1/jobs/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOffline_PrecachesAndServesWhenOriginIsDown(t *testing.T) {
	_, srv := newOrigin(t)
	logger := log.New(io.Discard, "", 0)

	cfg := testConfig()
	cfg.Offline.OriginURL = srv.URL
	var mu sync.Mutex
	var precached []string
	proxy, err := NewOffline(cfg, config.DefaultManifest(), logger, offline.WithPrecacheProgress(func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			precached = append(precached, key)
		}
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = proxy.Close() })

	// Before activation requests pass through.
	resp := get(t, proxy.Fiber, "/index.html")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	require.NoError(t, proxy.Worker.Start(context.Background()))
	assert.Equal(t, offline.Activated, proxy.Worker.Phase())
	assert.Len(t, precached, len(config.DefaultManifest().Assets))

	resp = get(t, proxy.Fiber, "/index.html")
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Empty(t, resp.Header.Get("Set-Cookie"))

	resp = get(t, proxy.Fiber, "/data/jobs.json")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	srv.Close()

	resp = get(t, proxy.Fiber, "/data/jobs.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	resp = get(t, proxy.Fiber, "/css/style.css")
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	// Uncached GETs fall back to the cached root document.
	resp = get(t, proxy.Fiber, "/api/v1/facets")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	post, err := proxy.Fiber.Test(httptest.NewRequest(http.MethodPost, "/api/v1/jobs/1/apply", nil))
	require.NoError(t, err)
	defer post.Body.Close()
	assert.Equal(t, http.StatusGatewayTimeout, post.StatusCode)

	resp = get(t, proxy.Fiber, "/__offline/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr("  ")
	assert.Error(t, err)
}
