package usecase

import (
	"context"
	"log"
	"strings"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/listing"
)

const maxVisible = 1000

type JobListParams struct {
	Query    string
	Location string
	Type     string
	Tags     []string
	Sort     string
	Visible  int
}

// State converts the request parameters into a listing state. Visible below one page is
// raised to one page.
func (p JobListParams) State() listing.State {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	st := listing.DefaultState().
		WithQuery(p.Query).
		WithLocation(p.Location).
		WithType(p.Type).
		WithTags(tags).
		WithSort(listing.ParseSort(p.Sort))
	if p.Visible > 0 {
		st = st.WithVisible(p.Visible)
	}
	return st
}

type JobListPage struct {
	Items   []job.Job
	Total   int
	Visible int
	HasMore bool
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, params JobListParams) (JobListPage, error)
	GetJob(ctx context.Context, id string) (job.Job, error)
	Facets(ctx context.Context) jobstore.Facets
}

// StoreProvider yields the populated job store. jobstore.Loader satisfies it.
type StoreProvider interface {
	Store(ctx context.Context) *jobstore.Store
}

type JobList struct {
	stores StoreProvider
	logger *log.Logger
}

func NewJobListUsecase(stores StoreProvider, logger *log.Logger) *JobList {
	if logger == nil {
		logger = log.Default()
	}
	return &JobList{stores: stores, logger: logger}
}

func (u *JobList) store(ctx context.Context) *jobstore.Store {
	if u == nil || u.stores == nil {
		return jobstore.Empty()
	}
	if s := u.stores.Store(ctx); s != nil {
		return s
	}
	return jobstore.Empty()
}

func (u *JobList) ListJobs(ctx context.Context, params JobListParams) (JobListPage, error) {
	if params.Visible < 0 || params.Visible > maxVisible {
		return JobListPage{}, ErrInvalidInput
	}

	res := listing.Apply(u.store(ctx).All(), params.State())
	return JobListPage{
		Items:   res.Items,
		Total:   res.Total,
		Visible: res.Visible,
		HasMore: res.HasMore,
	}, nil
}

func (u *JobList) GetJob(ctx context.Context, id string) (job.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return job.Job{}, ErrInvalidInput
	}
	j, ok := u.store(ctx).ByID(id)
	if !ok {
		return job.Job{}, ErrNotFound
	}
	return j, nil
}

func (u *JobList) Facets(ctx context.Context) jobstore.Facets {
	return u.store(ctx).Facets()
}
