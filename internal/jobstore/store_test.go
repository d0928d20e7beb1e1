package jobstore

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `[
  {"id":"a","title":"Backend Engineer","company":"Acme","location":"Remote","type":"Full-time",
   "description":"Build APIs","salary":"$100k","postedAt":"2024-01-01","tags":["go"],"extra":true},
  {"id":"b","title":"Frontend Engineer","company":"Globex","location":"NYC","type":"Contract",
   "description":"Build UIs","postedAt":"2024-02-01T10:00:00Z","tags":["js","css"]},
  {"id":"","title":"No id"},
  {"id":"a","title":"Duplicate"},
  {"id":7,"title":"Numeric id","postedAt":"2024-03-01"}
]`

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestParse(t *testing.T) {
	jobs, err := Parse([]byte(sampleDataset))
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "$100k", jobs[0].SalaryText())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), jobs[0].PostedAt)

	assert.Equal(t, "b", jobs[1].ID)
	assert.Equal(t, "-", jobs[1].SalaryText())
	assert.Equal(t, []string{"js", "css"}, jobs[1].Tags)

	assert.Equal(t, "7", jobs[2].ID)
}

func TestParse_NumericSalary(t *testing.T) {
	jobs, err := Parse([]byte(`[
	  {"id":"a","title":"Numeric","salary":120000},
	  {"id":"b","title":"Null","salary":null},
	  {"id":"c","title":"Absent"}
	]`))
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	require.NotNil(t, jobs[0].Salary)
	assert.Equal(t, "120000", jobs[0].SalaryText())
	assert.Nil(t, jobs[1].Salary)
	assert.Nil(t, jobs[2].Salary)
	assert.Equal(t, "-", jobs[2].SalaryText())
}

func TestParse_WrappedDocument(t *testing.T) {
	jobs, err := Parse([]byte(`{"jobs":[{"id":"x","title":"X"}]}`))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "x", jobs[0].ID)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "[{", `"str"`} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidDataset, "input %q", in)
	}
}

func TestStore_AccessorsAndFacets(t *testing.T) {
	jobs, err := Parse([]byte(sampleDataset))
	require.NoError(t, err)
	st := FromJobs(jobs)

	require.Equal(t, 3, st.Len())
	j, ok := st.ByID("b")
	require.True(t, ok)
	assert.Equal(t, "Globex", j.Company)

	_, ok = st.ByID("missing")
	assert.False(t, ok)

	f := st.Facets()
	assert.Equal(t, []string{"NYC", "Remote"}, f.Locations)
	assert.Equal(t, []string{"Contract", "Full-time"}, f.Types)
	assert.Equal(t, []string{"css", "go", "js"}, f.Tags)

	picked := st.Pick(map[string]struct{}{"b": {}, "a": {}, "zzz": {}})
	require.Len(t, picked, 2)
	assert.Equal(t, "a", picked[0].ID)
	assert.Equal(t, "b", picked[1].ID)
}

type countingSource struct {
	calls atomic.Int32
	body  []byte
	err   error
}

func (s *countingSource) Fetch(context.Context) ([]byte, error) {
	s.calls.Add(1)
	return s.body, s.err
}

func TestLoader_FetchesOnce(t *testing.T) {
	src := &countingSource{body: []byte(sampleDataset)}
	l := NewLoader(src, quietLogger(), 0)

	first := l.Store(context.Background())
	second := l.Store(context.Background())

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 3, first.Len())
}

func TestLoader_FailureYieldsEmptyStore(t *testing.T) {
	for name, src := range map[string]Source{
		"network": &countingSource{err: errors.New("connection refused")},
		"parse":   &countingSource{body: []byte("<html>")},
		"nil":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			st := NewLoader(src, quietLogger(), 0).Store(context.Background())
			require.NotNil(t, st)
			assert.Equal(t, 0, st.Len())
			assert.Empty(t, st.All())
		})
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/jobs.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleDataset))
	}))
	defer srv.Close()

	b, err := NewHTTPSource(srv.URL+"/data/jobs.json", nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(b), "Backend Engineer")

	_, err = NewHTTPSource(srv.URL+"/missing.json", nil).Fetch(context.Background())
	assert.Error(t, err)
}
