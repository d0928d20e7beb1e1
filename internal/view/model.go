package view

import (
	"io"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/listing"
	"jobfinder/internal/preferences"
	"jobfinder/internal/router"
)

// Model is everything a renderer needs for one paint. Job is nil on the detail route
// when the id is unknown.
type Model struct {
	Route     router.Route
	State     listing.State
	Result    listing.Result
	Job       *job.Job
	SavedJobs []job.Job
	Saved     preferences.IDSet
	Theme     preferences.Theme
	Facets    jobstore.Facets
}

func (m Model) NotFound() bool {
	return m.Route.Name == router.Detail && m.Job == nil
}

func (m Model) IsSaved(id string) bool {
	return m.Saved.Has(id)
}

// Renderer writes a full replacement of the visible content for m.
type Renderer interface {
	Render(w io.Writer, m Model) error
}
