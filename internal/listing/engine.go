package listing

import (
	"sort"
	"strings"

	"jobfinder/internal/domain/job"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Result struct {
	Items   []job.Job
	Total   int
	Visible int
	HasMore bool
}

// Apply filters, sorts and paginates jobs. The input slice is not modified.
func Apply(jobs []job.Job, st State) Result {
	matched := Sort(Filter(jobs, st), st.Sort())

	visible := st.Visible()
	if visible <= 0 {
		visible = PageSize
	}
	n := visible
	if n > len(matched) {
		n = len(matched)
	}

	return Result{
		Items:   matched[:n:n],
		Total:   len(matched),
		Visible: visible,
		HasMore: len(matched) > visible,
	}
}

func Filter(jobs []job.Job, st State) []job.Job {
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, st) {
			out = append(out, j)
		}
	}
	return out
}

func Matches(j job.Job, st State) bool {
	if q := st.Query(); q != "" {
		if !strings.Contains(haystack(j), q) {
			return false
		}
	}
	if loc := st.Location(); loc != "" && j.Location != loc {
		return false
	}
	if t := st.Type(); t != "" && j.Type != t {
		return false
	}
	for _, tag := range st.tags {
		if !j.HasTag(tag) {
			return false
		}
	}
	return true
}

func haystack(j job.Job) string {
	var b strings.Builder
	b.WriteString(j.Title)
	b.WriteByte(' ')
	b.WriteString(j.Company)
	b.WriteByte(' ')
	b.WriteString(j.Description)
	b.WriteByte(' ')
	b.WriteString(strings.Join(j.Tags, " "))
	return strings.ToLower(b.String())
}

// Sort returns a stably sorted copy. Equal keys keep their input order.
func Sort(jobs []job.Job, key SortKey) []job.Job {
	out := make([]job.Job, len(jobs))
	copy(out, jobs)

	switch key {
	case SortTitleAsc:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, k int) bool {
			return c.CompareString(out[i].Title, out[k].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, k int) bool {
			return out[i].PostedAt.After(out[k].PostedAt)
		})
	}
	return out
}
