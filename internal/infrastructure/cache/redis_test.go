package cache

import (
	"context"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/offline"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_UnavailableDegrades(t *testing.T) {
	ctx := context.Background()
	r := NewRedisFromClient(nil, log.New(io.Discard, "", 0))

	assert.False(t, r.Available())
	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)

	v, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.NoError(t, r.Set(ctx, "k", "v"))

	_, err = NewBucketStore(r, "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Host: m.Host(), Port: m.Port()}, log.New(io.Discard, "", 0))
	require.True(t, r.Available())
	t.Cleanup(func() { _ = r.Close() })
	return r, m
}

func TestRedis_KVRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)
	key := "jobfinder:test:" + uuid.NewString()

	_, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, key, "dark"))
	v, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestBucketStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)
	s, err := NewBucketStore(r, "offline-test-"+uuid.NewString())
	require.NoError(t, err)

	b, err := s.Open(ctx, "jobfinder-cache-v1")
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "/index.html", &offline.Response{
		URL: "/index.html", Status: 200, Header: http.Header{"Content-Type": {"text/html"}},
		Body: []byte("<html/>"), StoredAt: time.Now().UTC(),
	}))

	got, ok, err := b.Match(ctx, "/index.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<html/>", string(got.Body))
	assert.Equal(t, "text/html", got.Header.Get("Content-Type"))

	_, err = s.Open(ctx, "jobfinder-cache-v2")
	require.NoError(t, err)
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"jobfinder-cache-v1", "jobfinder-cache-v2"}, names)

	deleted, err := s.Delete(ctx, "jobfinder-cache-v1")
	require.NoError(t, err)
	assert.True(t, deleted)
	has, err := s.Has(ctx, "jobfinder-cache-v1")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.Delete(ctx, "jobfinder-cache-v2")
	require.NoError(t, err)
}

func TestBucketStore_WorkerDoesNotRecreatePurgedBucket(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRedis(t)
	s, err := NewBucketStore(r, "offline")
	require.NoError(t, err)

	network := offline.FetcherFunc(func(_ context.Context, req offline.Request) (*offline.Response, error) {
		return &offline.Response{URL: req.Key(), Status: http.StatusOK, Body: []byte("ok")}, nil
	})
	quiet := offline.WithLogger(log.New(io.Discard, "", 0))

	v1 := offline.NewWorker(offline.DefaultConfig(), s, network, quiet)
	require.NoError(t, v1.Start(ctx))

	cfg := offline.DefaultConfig()
	cfg.Version = "2"
	v2 := offline.NewWorker(cfg, s, network, quiet)
	require.NoError(t, v2.Start(ctx))
	assert.False(t, m.Exists("offline:bucket:jobfinder-cache-v1"))

	// v1 still serves requests after v2 took over.
	_, err = v1.Fetch(ctx, offline.Request{Method: http.MethodGet, URL: "/data/jobs.json"})
	require.NoError(t, err)
	_, err = v1.Fetch(ctx, offline.Request{Method: http.MethodGet, URL: "/index.html"})
	require.NoError(t, err)

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"jobfinder-cache-v2"}, names)
	assert.False(t, m.Exists("offline:bucket:jobfinder-cache-v1"))
}
