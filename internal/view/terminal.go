package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/preferences"
	"jobfinder/internal/router"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

// TerminalRenderer paints the same views as HTMLRenderer for the terminal client.
type TerminalRenderer struct {
	now func() time.Time
}

func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{now: time.Now}
}

func (r *TerminalRenderer) Render(w io.Writer, m Model) error {
	var (
		out string
		err error
	)
	switch {
	case m.NotFound():
		out = r.notFound(m)
	case m.Route.Name == router.Detail:
		out = r.detail(m)
	case m.Route.Name == router.Saved:
		out, err = r.saved(m)
	case m.Route.Name == router.About:
		out = pterm.DefaultHeader.Sprint("About JobFinder") + "\n" +
			"Browse, filter and save job listings. Works offline once loaded.\n"
	default:
		out, err = r.home(m)
	}
	if err != nil {
		return err
	}
	if m.Theme == preferences.ThemeDark {
		out = pterm.Gray("theme: dark") + "\n" + out
	}
	_, err = io.WriteString(w, out)
	return err
}

func (r *TerminalRenderer) posted(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

func (r *TerminalRenderer) table(jobs []job.Job, saved preferences.IDSet) (string, error) {
	data := pterm.TableData{{"", "ID", "Title", "Company", "Location", "Type", "Salary", "Posted", "Tags"}}
	for _, j := range jobs {
		mark := ""
		if saved.Has(j.ID) {
			mark = "*"
		}
		data = append(data, []string{
			mark, j.ID, j.Title, j.Company, j.Location, j.Type,
			j.SalaryText(), r.posted(j.PostedAt), strings.Join(j.Tags, ", "),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func (r *TerminalRenderer) home(m Model) (string, error) {
	var b strings.Builder
	b.WriteString(pterm.DefaultHeader.Sprint("Jobs"))
	b.WriteString("\n")

	var filters []string
	if q := m.State.Query(); q != "" {
		filters = append(filters, "q="+q)
	}
	if loc := m.State.Location(); loc != "" {
		filters = append(filters, "location="+loc)
	}
	if t := m.State.Type(); t != "" {
		filters = append(filters, "type="+t)
	}
	if tags := m.State.Tags(); len(tags) > 0 {
		filters = append(filters, "tags="+strings.Join(tags, ","))
	}
	filters = append(filters, "sort="+string(m.State.Sort()))
	b.WriteString(strings.Join(filters, "  "))
	b.WriteString("\n")

	noun := "results"
	if m.Result.Total == 1 {
		noun = "result"
	}
	fmt.Fprintf(&b, "%s %s\n", humanize.Comma(int64(m.Result.Total)), noun)

	if len(m.Result.Items) == 0 {
		b.WriteString(pterm.Yellow("No jobs match your filters."))
		b.WriteString("\n")
		return b.String(), nil
	}
	t, err := r.table(m.Result.Items, m.Saved)
	if err != nil {
		return "", err
	}
	b.WriteString(t)
	b.WriteString("\n")
	if m.Result.HasMore {
		fmt.Fprintf(&b, "showing %d of %d, type 'more' to load more\n", len(m.Result.Items), m.Result.Total)
	}
	return b.String(), nil
}

func (r *TerminalRenderer) detail(m Model) string {
	j := m.Job
	save := "not saved"
	if m.IsSaved(j.ID) {
		save = pterm.Green("saved")
	}
	body := strings.Join([]string{
		j.Company + " · " + j.Location + " · " + j.Type,
		"Salary: " + j.SalaryText(),
		"Posted " + r.posted(j.PostedAt),
		"Tags: " + strings.Join(j.Tags, ", "),
		save,
		"",
		j.Description,
	}, "\n")
	return pterm.DefaultBox.WithTitle(j.Title).Sprint(body) + "\n"
}

func (r *TerminalRenderer) notFound(m Model) string {
	return pterm.Red(fmt.Sprintf("Job %q not found.", m.Route.JobID)) + "\n" +
		"Type 'home' to go back to jobs.\n"
}

func (r *TerminalRenderer) saved(m Model) (string, error) {
	head := pterm.DefaultHeader.Sprint("Saved jobs") + "\n"
	if len(m.SavedJobs) == 0 {
		return head + "You have not saved any jobs yet.\n", nil
	}
	t, err := r.table(m.SavedJobs, m.Saved)
	if err != nil {
		return "", err
	}
	return head + t + "\n", nil
}

var _ Renderer = (*TerminalRenderer)(nil)
