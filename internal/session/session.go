package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/listing"
	"jobfinder/internal/preferences"
	"jobfinder/internal/router"
	"jobfinder/internal/view"
)

const DefaultQueryDelay = 250 * time.Millisecond

var ErrNotStarted = errors.New("session not started")

// BuildModel assembles the view model for route and st. It only reads.
func BuildModel(ctx context.Context, store *jobstore.Store, prefs *preferences.Adapter, route router.Route, st listing.State) view.Model {
	if store == nil {
		store = jobstore.Empty()
	}
	saved := prefs.SavedIDs(ctx)
	m := view.Model{
		Route: route,
		State: st,
		Saved: saved,
		Theme: prefs.Theme(ctx),
	}

	switch route.Name {
	case router.Detail:
		if j, ok := store.ByID(route.JobID); ok {
			m.Job = &j
		}
	case router.Saved:
		m.SavedJobs = store.Pick(saved)
	case router.Home:
		m.Result = listing.Apply(store.All(), st)
		m.Facets = store.Facets()
	}
	return m
}

type Option func(*Session)

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQueryDelay sets how long the query must be idle before it is applied.
func WithQueryDelay(d time.Duration) Option {
	return func(s *Session) { s.queryDelay = d }
}

// Session drives one user's interaction loop: an action updates the state, the engine
// recomputes, and the renderer repaints the whole view.
type Session struct {
	loader   *jobstore.Loader
	prefs    *preferences.Adapter
	renderer view.Renderer
	out      io.Writer
	logger   *log.Logger

	queryDelay time.Duration
	query      *listing.Debouncer[pendingQuery]

	mu       sync.Mutex
	queryGen uint64
	ctx     context.Context
	store   *jobstore.Store
	state   listing.State
	route   router.Route
	started bool
}

func New(loader *jobstore.Loader, prefs *preferences.Adapter, renderer view.Renderer, out io.Writer, opts ...Option) *Session {
	s := &Session{
		loader:     loader,
		prefs:      prefs,
		renderer:   renderer,
		out:        out,
		logger:     log.Default(),
		queryDelay: DefaultQueryDelay,
		state:      listing.DefaultState(),
		route:      router.Route{Name: router.Home},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.query = listing.NewDebouncer(s.queryDelay, s.applyQuery)
	return s
}

// Start populates the store once and renders the route for fragment.
func (s *Session) Start(ctx context.Context, fragment string) error {
	store := s.loader.Store(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
	s.store = store
	s.route = router.Resolve(fragment)
	s.started = true
	return s.renderLocked(ctx)
}

// pendingQuery is a submitted query tagged with the clear generation it was typed in.
type pendingQuery struct {
	text string
	gen  uint64
}

// Close drops any pending query.
func (s *Session) Close() {
	s.query.Stop()
}

func (s *Session) State() listing.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Route() router.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// FlushQuery applies a pending query now instead of waiting for the idle delay.
func (s *Session) FlushQuery() bool {
	return s.query.Flush()
}

func (s *Session) applyQuery(q pendingQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A clear that ran while the debouncer was firing wins over the older query.
	if !s.started || q.gen != s.queryGen {
		return
	}
	s.state = s.state.WithQuery(q.text)
	if err := s.renderLocked(s.ctx); err != nil {
		s.logger.Printf("[Session] render failed | error=%v", err)
	}
}

func (s *Session) Dispatch(ctx context.Context, a Action) error {
	if a.Kind == ActSetQuery {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.started {
			return ErrNotStarted
		}
		s.query.Submit(pendingQuery{text: a.Value, gen: s.queryGen})
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}

	switch a.Kind {
	case ActNavigate:
		s.route = router.Resolve(a.Value)
	case ActSetLocation:
		s.state = s.state.WithLocation(a.Value)
	case ActSetType:
		s.state = s.state.WithType(a.Value)
	case ActToggleTag:
		s.state = s.state.ToggleTag(a.Value)
	case ActSetSort:
		s.state = s.state.WithSort(listing.ParseSort(a.Value))
	case ActLoadMore:
		s.state = s.state.LoadMore()
	case ActClearFilters:
		s.dropQueryLocked()
		s.state = s.state.Clear()
	case ActToggleSaved:
		if _, _, err := s.prefs.ToggleSaved(ctx, a.Value); err != nil {
			return fmt.Errorf("toggle saved: %w", err)
		}
	case ActToggleTheme:
		if _, err := s.prefs.ToggleTheme(ctx); err != nil {
			return fmt.Errorf("toggle theme: %w", err)
		}
	case ActTagFromDetail:
		s.dropQueryLocked()
		s.state = s.state.Clear().WithTag(a.Value)
		s.route = router.Route{Name: router.Home}
	case ActApply:
		s.apply(a.Value)
		return nil
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
	return s.renderLocked(ctx)
}

func (s *Session) dropQueryLocked() {
	s.queryGen++
	s.query.Stop()
}

func (s *Session) apply(id string) {
	var j job.Job
	var ok bool
	if s.store != nil {
		j, ok = s.store.ByID(id)
	}
	if !ok {
		s.logger.Printf("[Session] apply ignored, unknown job | job_id=%s", id)
		return
	}
	s.logger.Printf("[Session] apply requested | job_id=%s title=%q", j.ID, j.Title)
	_, _ = fmt.Fprintf(s.out, "Applications are not supported yet. Contact %s directly.\n", j.Company)
}

func (s *Session) renderLocked(ctx context.Context) error {
	m := BuildModel(ctx, s.store, s.prefs, s.route, s.state)
	return s.renderer.Render(s.out, m)
}
