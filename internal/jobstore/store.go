package jobstore

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"jobfinder/internal/domain/job"
)

// Store is the read-only job sequence for one session lifetime.
type Store struct {
	jobs []job.Job
	byID map[string]int
}

func FromJobs(jobs []job.Job) *Store {
	s := &Store{
		jobs: make([]job.Job, 0, len(jobs)),
		byID: make(map[string]int, len(jobs)),
	}
	for _, j := range jobs {
		if j.ID == "" {
			continue
		}
		if _, dup := s.byID[j.ID]; dup {
			continue
		}
		s.byID[j.ID] = len(s.jobs)
		s.jobs = append(s.jobs, j)
	}
	return s
}

func Empty() *Store {
	return FromJobs(nil)
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.jobs)
}

// All returns the jobs in store order. The slice is a copy; the records share tag slices
// and must be treated as read-only.
func (s *Store) All() []job.Job {
	if s == nil {
		return nil
	}
	out := make([]job.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Store) ByID(id string) (job.Job, bool) {
	if s == nil {
		return job.Job{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return job.Job{}, false
	}
	return s.jobs[i], true
}

// Pick returns the jobs whose id is in ids, in store order.
func (s *Store) Pick(ids map[string]struct{}) []job.Job {
	if s == nil || len(ids) == 0 {
		return []job.Job{}
	}
	out := make([]job.Job, 0, len(ids))
	for _, j := range s.jobs {
		if _, ok := ids[j.ID]; ok {
			out = append(out, j)
		}
	}
	return out
}

type Facets struct {
	Locations []string `json:"locations"`
	Types     []string `json:"types"`
	Tags      []string `json:"tags"`
}

func (s *Store) Facets() Facets {
	locs := map[string]struct{}{}
	types := map[string]struct{}{}
	tags := map[string]struct{}{}
	if s != nil {
		for _, j := range s.jobs {
			if j.Location != "" {
				locs[j.Location] = struct{}{}
			}
			if j.Type != "" {
				types[j.Type] = struct{}{}
			}
			for _, t := range j.Tags {
				tags[t] = struct{}{}
			}
		}
	}
	return Facets{Locations: sortedKeys(locs), Types: sortedKeys(types), Tags: sortedKeys(tags)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Loader populates a Store exactly once. A failed fetch or parse yields an empty store.
type Loader struct {
	src    Source
	logger *log.Logger
	delay  time.Duration

	once  sync.Once
	store *Store
}

func NewLoader(src Source, logger *log.Logger, delay time.Duration) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	if delay < 0 {
		delay = 0
	}
	return &Loader{src: src, logger: logger, delay: delay}
}

func (l *Loader) Store(ctx context.Context) *Store {
	l.once.Do(func() {
		l.store = l.load(ctx)
	})
	return l.store
}

func (l *Loader) load(ctx context.Context) *Store {
	if l.delay > 0 {
		t := time.NewTimer(l.delay)
		select {
		case <-ctx.Done():
			t.Stop()
		case <-t.C:
		}
	}
	if l.src == nil {
		l.logger.Printf("[JobStore] load failed: no source configured")
		return Empty()
	}

	start := time.Now()
	b, err := l.src.Fetch(ctx)
	if err != nil {
		l.logger.Printf("[JobStore] load failed | error=%v", err)
		return Empty()
	}
	jobs, err := Parse(b)
	if err != nil {
		l.logger.Printf("[JobStore] load failed | error=%v", err)
		return Empty()
	}

	st := FromJobs(jobs)
	l.logger.Printf("[JobStore] loaded | jobs=%d latency=%s", st.Len(), time.Since(start))
	return st
}
