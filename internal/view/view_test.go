package view

import (
	"bytes"
	"os"
	"testing"
	"time"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/listing"
	"jobfinder/internal/preferences"
	"jobfinder/internal/router"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func fixture() []job.Job {
	salary := "$120k"
	return []job.Job{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Location: "Remote", Type: "Full-time",
			Description: "Build <APIs>", Salary: &salary, PostedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Tags: []string{"go"}},
		{ID: "b", Title: "Frontend Engineer", Company: "Beta", Location: "NYC", Type: "Contract",
			PostedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Tags: []string{"js"}},
	}
}

func homeModel(st listing.State) Model {
	jobs := fixture()
	return Model{
		Route:  router.Route{Name: router.Home},
		State:  st,
		Result: listing.Apply(jobs, st),
		Saved:  preferences.NewIDSet("a"),
		Theme:  preferences.ThemeLight,
		Facets: jobstore.FromJobs(jobs).Facets(),
	}
}

func newHTML(t *testing.T) *HTMLRenderer {
	t.Helper()
	r, err := NewHTMLRenderer()
	require.NoError(t, err)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestHTMLRenderer_Home(t *testing.T) {
	r := newHTML(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, homeModel(listing.DefaultState())))

	out := buf.String()
	assert.Contains(t, out, "2 results")
	assert.Contains(t, out, `href="#/job/a"`)
	assert.Contains(t, out, `<option value="Remote">Remote</option>`)
	assert.NotContains(t, out, "load-more")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Frontend")), bytes.Index(buf.Bytes(), []byte("Backend")))
}

func TestHTMLRenderer_HomeEmpty(t *testing.T) {
	r := newHTML(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, homeModel(listing.DefaultState().WithTag("missing"))))
	assert.Contains(t, buf.String(), "0 results")
	assert.Contains(t, buf.String(), "No jobs match your filters.")
}

func TestHTMLRenderer_DetailEscapesAndShowsPlaceholderSalary(t *testing.T) {
	r := newHTML(t)
	jobs := fixture()

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Detail, JobID: "a"}, Job: &jobs[0], Saved: preferences.NewIDSet("a")}))
	assert.Contains(t, buf.String(), "Build &lt;APIs&gt;")
	assert.Contains(t, buf.String(), "Salary: $120k")
	assert.Contains(t, buf.String(), ">Saved<")

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Detail, JobID: "b"}, Job: &jobs[1], Saved: preferences.NewIDSet()}))
	assert.Contains(t, buf.String(), "Salary: -")
	assert.Contains(t, buf.String(), ">Save<")
}

func TestHTMLRenderer_NotFoundHasBackLink(t *testing.T) {
	r := newHTML(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Detail, JobID: "zzz"}}))
	assert.Contains(t, buf.String(), "Job not found")
	assert.Contains(t, buf.String(), `href="#/"`)
}

func TestHTMLRenderer_SavedAndAbout(t *testing.T) {
	r := newHTML(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Saved}}))
	assert.Contains(t, buf.String(), "not saved any jobs")

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Saved}, SavedJobs: fixture()[:1]}))
	assert.Contains(t, buf.String(), "Backend Engineer")

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.About}}))
	assert.Contains(t, buf.String(), "About JobFinder")
}

func TestHTMLRenderer_Idempotent(t *testing.T) {
	r := newHTML(t)
	m := homeModel(listing.DefaultState())
	var a, b bytes.Buffer
	require.NoError(t, r.Render(&a, m))
	require.NoError(t, r.Render(&b, m))
	assert.Equal(t, a.String(), b.String())
}

func TestTerminalRenderer_Views(t *testing.T) {
	r := NewTerminalRenderer()
	r.now = func() time.Time { return fixedNow }
	jobs := fixture()

	var buf bytes.Buffer
	st := listing.DefaultState().WithSort(listing.SortTitleAsc)
	require.NoError(t, r.Render(&buf, homeModel(st)))
	out := buf.String()
	assert.Contains(t, out, "2 results")
	assert.Contains(t, out, "sort=title-ascending")
	assert.Contains(t, out, "2 months ago")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Backend")), bytes.Index(buf.Bytes(), []byte("Frontend")))

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Detail, JobID: "b"}, Job: &jobs[1]}))
	assert.Contains(t, buf.String(), "Salary: -")

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Detail, JobID: "x"}}))
	assert.Contains(t, buf.String(), `Job "x" not found.`)

	buf.Reset()
	require.NoError(t, r.Render(&buf, Model{Route: router.Route{Name: router.Saved}, Theme: preferences.ThemeDark}))
	assert.Contains(t, buf.String(), "theme: dark")
	assert.Contains(t, buf.String(), "not saved any jobs")
}
