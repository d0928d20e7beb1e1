package offline

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Response is a fetched or cached response. Values stored in a bucket are clones, so
// callers may keep and modify what they get back.
type Response struct {
	URL       string      `json:"url"`
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	Body      []byte      `json:"body"`
	StoredAt  time.Time   `json:"stored_at,omitempty"`
	FromCache bool        `json:"-"`
}

func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Header = r.Header.Clone()
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return &out
}

func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Bucket is one named, versioned collection of cached request/response pairs.
type Bucket interface {
	Match(ctx context.Context, key string) (*Response, bool, error)
	Put(ctx context.Context, key string, resp *Response) error
	Delete(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
}

// Storage is the registry of buckets.
type Storage interface {
	Open(ctx context.Context, name string) (Bucket, error)
	Has(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) (bool, error)
	Names(ctx context.Context) ([]string, error)
}

type MemoryStorage struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{buckets: map[string]*memoryBucket{}}
}

func (s *MemoryStorage) Open(_ context.Context, name string) (Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[name]
	if !ok {
		b = &memoryBucket{entries: map[string]*Response{}}
		s.buckets[name] = b
	}
	return b, nil
}

func (s *MemoryStorage) Has(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[name]
	return ok, nil
}

func (s *MemoryStorage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[name]
	delete(s.buckets, name)
	return ok, nil
}

func (s *MemoryStorage) Names(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.buckets))
	for n := range s.buckets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

type memoryBucket struct {
	mu      sync.RWMutex
	entries map[string]*Response
}

func (b *memoryBucket) Match(_ context.Context, key string) (*Response, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

func (b *memoryBucket) Put(_ context.Context, key string, resp *Response) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = resp.Clone()
	return nil
}

func (b *memoryBucket) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[key]
	delete(b.entries, key)
	return ok, nil
}

func (b *memoryBucket) Keys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.entries))
	for k := range b.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Bucket  = (*memoryBucket)(nil)
)
