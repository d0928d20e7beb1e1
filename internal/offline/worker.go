package offline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"jobfinder/internal/pkg/workerpool"
)

var (
	ErrFetchFailed   = errors.New("fetch failed")
	ErrInstallFailed = errors.New("install failed")
	ErrNotInstalled  = errors.New("worker not installed")
	ErrBucketGone    = errors.New("current bucket no longer exists")
)

type Phase int

const (
	Parsed Phase = iota
	Installing
	Installed
	Activating
	Activated
	Redundant
)

func (p Phase) String() string {
	switch p {
	case Installing:
		return "installing"
	case Installed:
		return "installed"
	case Activating:
		return "activating"
	case Activated:
		return "activated"
	case Redundant:
		return "redundant"
	default:
		return "parsed"
	}
}

// Claimer takes control of already-open clients once a version is active.
type Claimer interface {
	Claim(version string)
}

type Config struct {
	Version     string
	CachePrefix string
	Manifest    []string
	DataPaths   []string
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		Version:     "1",
		CachePrefix: "jobfinder-cache",
		Manifest: []string{
			"./",
			"./index.html",
			"./css/style.css",
			"./js/main.js",
			"./data/jobs.json",
		},
		DataPaths:   []string{"/data/jobs.json"},
		Concurrency: 4,
	}
}

// BucketName is the name of the current bucket, for example "jobfinder-cache-v1".
func (c Config) BucketName() string {
	prefix := strings.TrimSpace(c.CachePrefix)
	if prefix == "" {
		prefix = "jobfinder-cache"
	}
	v := strings.TrimPrefix(strings.TrimSpace(c.Version), "v")
	if v == "" {
		v = "1"
	}
	return prefix + "-v" + v
}

type Option func(*Worker)

func WithLogger(l *log.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithClaimer(c Claimer) Option {
	return func(w *Worker) { w.claimer = c }
}

// RefreshNotifier hears about network-first responses that replaced the cached copy.
type RefreshNotifier interface {
	NotifyDatasetRefreshed(key string)
}

func WithRefreshNotifier(n RefreshNotifier) Option {
	return func(w *Worker) { w.refreshed = n }
}

func WithRouter(r Router) Option {
	return func(w *Worker) {
		if r != nil {
			w.route = r
		}
	}
}

// WithPrecacheProgress is called once per manifest entry fetched during install.
func WithPrecacheProgress(fn func(key string, err error)) Option {
	return func(w *Worker) { w.progress = fn }
}

// Worker intercepts requests and answers them from the network or from the current
// bucket. Only Activate deletes buckets, and it never deletes the current one.
type Worker struct {
	cfg     Config
	bucket  string
	storage Storage
	network Fetcher
	route   Router

	claimer   Claimer
	refreshed RefreshNotifier
	progress  func(string, error)
	logger   *log.Logger

	mu    sync.RWMutex
	phase Phase
}

func NewWorker(cfg Config, storage Storage, network Fetcher, opts ...Option) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	w := &Worker{
		cfg:     cfg,
		bucket:  cfg.BucketName(),
		storage: storage,
		network: network,
		route:   PathSuffixRouter(cfg.DataPaths...),
		logger:  log.Default(),
		phase:   Parsed,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Phase() Phase {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.phase
}

func (w *Worker) Version() string {
	return w.cfg.Version
}

func (w *Worker) BucketName() string {
	return w.bucket
}

func (w *Worker) setPhase(p Phase) {
	w.mu.Lock()
	w.phase = p
	w.mu.Unlock()
}

// Install precaches the manifest into the current bucket. Entries are written only when
// every manifest entry was fetched with a 2xx status.
func (w *Worker) Install(ctx context.Context) error {
	w.mu.Lock()
	switch w.phase {
	case Installing, Installed, Activating, Activated:
		w.mu.Unlock()
		return nil
	}
	w.phase = Installing
	w.mu.Unlock()

	start := time.Now()
	keys := make([]string, 0, len(w.cfg.Manifest))
	seen := map[string]struct{}{}
	for _, m := range w.cfg.Manifest {
		k := CacheKey(m)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	fetched := make([]*Response, len(keys))
	tasks := make([]workerpool.Task, 0, len(keys))
	for i, k := range keys {
		tasks = append(tasks, func(ctx context.Context) error {
			resp, err := w.network.Fetch(ctx, Request{Method: http.MethodGet, URL: k})
			if err == nil && !resp.OK() {
				err = fmt.Errorf("unexpected status %d for %s", resp.Status, k)
			}
			if w.progress != nil {
				w.progress(k, err)
			}
			if err != nil {
				return err
			}
			fetched[i] = resp
			return nil
		})
	}

	if err := workerpool.RunAll(ctx, w.cfg.Concurrency, tasks); err != nil {
		w.setPhase(Redundant)
		w.logger.Printf("[Offline] install failed | bucket=%s error=%v", w.bucket, err)
		return fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}

	b, err := w.storage.Open(ctx, w.bucket)
	if err != nil {
		w.setPhase(Redundant)
		return fmt.Errorf("%w: open bucket: %v", ErrInstallFailed, err)
	}
	now := time.Now().UTC()
	for i, k := range keys {
		resp := storable(fetched[i])
		resp.StoredAt = now
		if err := b.Put(ctx, k, resp); err != nil {
			w.setPhase(Redundant)
			return fmt.Errorf("%w: put %s: %v", ErrInstallFailed, k, err)
		}
	}

	w.setPhase(Installed)
	w.logger.Printf("[Offline] installed | bucket=%s assets=%d latency=%s", w.bucket, len(keys), time.Since(start))
	return nil
}

// Activate deletes every bucket except the current one and claims open clients.
func (w *Worker) Activate(ctx context.Context) error {
	w.mu.Lock()
	switch w.phase {
	case Activating, Activated:
		w.mu.Unlock()
		return nil
	case Installed:
	default:
		w.mu.Unlock()
		return ErrNotInstalled
	}
	w.phase = Activating
	w.mu.Unlock()

	names, err := w.storage.Names(ctx)
	if err != nil {
		w.setPhase(Installed)
		return err
	}
	for _, n := range names {
		if n == w.bucket {
			continue
		}
		if _, err := w.storage.Delete(ctx, n); err != nil {
			w.setPhase(Installed)
			return fmt.Errorf("delete bucket %s: %w", n, err)
		}
		w.logger.Printf("[Offline] deleted stale bucket | bucket=%s", n)
	}

	w.setPhase(Activated)
	if w.claimer != nil {
		w.claimer.Claim(w.cfg.Version)
	}
	w.logger.Printf("[Offline] activated | bucket=%s", w.bucket)
	return nil
}

// Start runs install then activate.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.Install(ctx); err != nil {
		return err
	}
	return w.Activate(ctx)
}

// Fetch handles one request. Until the worker is active, and for any non-GET request,
// the request goes straight to the network.
func (w *Worker) Fetch(ctx context.Context, req Request) (*Response, error) {
	if w.Phase() != Activated || req.method() != http.MethodGet {
		resp, err := w.network.Fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		return resp, nil
	}

	if w.route(req) == NetworkFirst {
		return w.networkFirst(ctx, req)
	}
	return w.cacheFirst(ctx, req)
}

func (w *Worker) networkFirst(ctx context.Context, req Request) (*Response, error) {
	key := req.Key()
	resp, netErr := w.network.Fetch(ctx, req)
	if netErr == nil {
		cp := storable(resp)
		cp.StoredAt = time.Now().UTC()
		if err := w.put(ctx, key, cp); err != nil {
			w.logger.Printf("[Offline] cache put failed | key=%s error=%v", key, err)
		} else if w.refreshed != nil {
			w.refreshed.NotifyDatasetRefreshed(key)
		}
		return resp, nil
	}

	cached, ok := w.match(ctx, key)
	if ok {
		w.logger.Printf("[Offline] network-first fallback to cache | key=%s", key)
		return cached, nil
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, key, netErr)
}

func (w *Worker) cacheFirst(ctx context.Context, req Request) (*Response, error) {
	key := req.Key()
	if cached, ok := w.match(ctx, key); ok {
		return cached, nil
	}

	resp, netErr := w.network.Fetch(ctx, req)
	if netErr == nil {
		return resp, nil
	}

	if root, ok := w.match(ctx, "/"); ok {
		w.logger.Printf("[Offline] cache-first fallback to root document | key=%s", key)
		return root, nil
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, key, netErr)
}

// storable is the copy of resp that goes into a bucket. Per-client cookies are never
// replayed from the cache.
func storable(resp *Response) *Response {
	cp := resp.Clone()
	if cp.Header != nil {
		cp.Header.Del("Set-Cookie")
	}
	return cp
}

// current opens the current bucket without creating it. Only Install creates buckets,
// so a bucket purged by a newer version's activation stays gone.
func (w *Worker) current(ctx context.Context) (Bucket, bool) {
	has, err := w.storage.Has(ctx, w.bucket)
	if err != nil {
		w.logger.Printf("[Offline] bucket lookup failed | bucket=%s error=%v", w.bucket, err)
		return nil, false
	}
	if !has {
		return nil, false
	}
	b, err := w.storage.Open(ctx, w.bucket)
	if err != nil {
		w.logger.Printf("[Offline] open bucket failed | bucket=%s error=%v", w.bucket, err)
		return nil, false
	}
	return b, true
}

func (w *Worker) match(ctx context.Context, key string) (*Response, bool) {
	b, ok := w.current(ctx)
	if !ok {
		return nil, false
	}
	r, ok, err := b.Match(ctx, key)
	if err != nil {
		w.logger.Printf("[Offline] cache match failed | key=%s error=%v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	r.FromCache = true
	return r, true
}

func (w *Worker) put(ctx context.Context, key string, resp *Response) error {
	b, ok := w.current(ctx)
	if !ok {
		return ErrBucketGone
	}
	return b.Put(ctx, key, resp)
}

type Status struct {
	Version string   `json:"version"`
	Phase   string   `json:"phase"`
	Bucket  string   `json:"bucket"`
	Buckets []string `json:"buckets"`
	Entries []string `json:"entries"`
}

func (w *Worker) Status(ctx context.Context) (Status, error) {
	st := Status{Version: w.cfg.Version, Phase: w.Phase().String(), Bucket: w.bucket}
	names, err := w.storage.Names(ctx)
	if err != nil {
		return st, err
	}
	st.Buckets = names
	has, err := w.storage.Has(ctx, w.bucket)
	if err != nil || !has {
		return st, err
	}
	b, err := w.storage.Open(ctx, w.bucket)
	if err != nil {
		return st, err
	}
	st.Entries, err = b.Keys(ctx)
	return st, err
}
