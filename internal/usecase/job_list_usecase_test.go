package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/jobstore"
	"jobfinder/internal/preferences"
)

type staticStores struct {
	s *jobstore.Store
}

func (m staticStores) Store(context.Context) *jobstore.Store { return m.s }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fixtureStores() staticStores {
	return staticStores{s: jobstore.FromJobs([]job.Job{
		{ID: "a", Title: "Backend Engineer", Company: "Acme", Location: "Remote", Type: "Full-time", PostedAt: day("2024-01-01"), Tags: []string{"go"}},
		{ID: "b", Title: "Backend Engineer", Company: "Beta", Location: "NYC", Type: "Contract", PostedAt: day("2024-02-01"), Tags: []string{"rust"}},
		{ID: "c", Title: "Data Engineer", Company: "Gamma", Location: "Remote", Type: "Full-time", PostedAt: day("2023-12-01"), Tags: []string{"go", "sql"}},
		{ID: "d", Title: "Designer", Company: "Delta", Location: "Berlin", Type: "Part-time", PostedAt: day("2023-11-01")},
		{ID: "e", Title: "Engineer", Company: "Eps", Location: "Remote", Type: "Full-time", PostedAt: day("2023-10-01")},
	})}
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func pageIDs(p JobListPage) []string {
	out := make([]string, 0, len(p.Items))
	for _, j := range p.Items {
		out = append(out, j.ID)
	}
	return out
}

func TestJobListUsecase_ListJobs_InvalidVisible(t *testing.T) {
	uc := NewJobListUsecase(fixtureStores(), discard())
	for _, v := range []int{-1, maxVisible + 1} {
		if _, err := uc.ListJobs(context.Background(), JobListParams{Visible: v}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("visible=%d: expected ErrInvalidInput, got %v", v, err)
		}
	}
}

func TestJobListUsecase_ListJobs_Success(t *testing.T) {
	uc := NewJobListUsecase(fixtureStores(), discard())

	page, err := uc.ListJobs(context.Background(), JobListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 5 || len(page.Items) != 4 || !page.HasMore {
		t.Fatalf("unexpected first page: total=%d items=%d has_more=%v", page.Total, len(page.Items), page.HasMore)
	}
	if got := pageIDs(page); got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected newest first, got %v", got)
	}

	page, err = uc.ListJobs(context.Background(), JobListParams{
		Query: "  ENGINEER ", Location: "Remote", Tags: []string{"go", " "}, Sort: "title-ascending",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := pageIDs(page); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected filtered order: %v", got)
	}
}

func TestJobListUsecase_GetJob(t *testing.T) {
	uc := NewJobListUsecase(fixtureStores(), discard())
	if _, err := uc.GetJob(context.Background(), "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.GetJob(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	j, err := uc.GetJob(context.Background(), "c")
	if err != nil || j.Company != "Gamma" {
		t.Fatalf("unexpected result: %+v err=%v", j, err)
	}
}

func TestJobListUsecase_NilStoreIsEmpty(t *testing.T) {
	uc := NewJobListUsecase(staticStores{}, discard())
	page, err := uc.ListJobs(context.Background(), JobListParams{})
	if err != nil || page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %+v err=%v", page, err)
	}
	if f := uc.Facets(context.Background()); len(f.Locations) != 0 {
		t.Fatalf("expected no facets, got %+v", f)
	}
}

func TestPreferencesUsecase_Saved(t *testing.T) {
	ctx := context.Background()
	uc := NewPreferencesUsecase(preferences.NewMemoryKV(), fixtureStores(), discard())

	if _, err := uc.AddSaved(ctx, "", "a"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.AddSaved(ctx, "c1", "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ids, err := uc.AddSaved(ctx, "c1", "c")
	if err != nil || len(ids) != 1 {
		t.Fatalf("unexpected: %v err=%v", ids, err)
	}
	ids, _ = uc.AddSaved(ctx, "c1", "c")
	if len(ids) != 1 {
		t.Fatalf("add must be idempotent, got %v", ids)
	}
	_, _ = uc.AddSaved(ctx, "c1", "a")

	jobs, err := uc.SavedJobs(ctx, "c1")
	if err != nil || len(jobs) != 2 || jobs[0].ID != "a" || jobs[1].ID != "c" {
		t.Fatalf("expected [a c] in store order, got %+v err=%v", jobs, err)
	}

	ids, saved, err := uc.ToggleSaved(ctx, "c1", "a")
	if err != nil || saved || len(ids) != 1 {
		t.Fatalf("unexpected toggle: %v saved=%v err=%v", ids, saved, err)
	}
	ids, err = uc.RemoveSaved(ctx, "c1", "not-there")
	if err != nil || len(ids) != 1 {
		t.Fatalf("remove must be idempotent, got %v err=%v", ids, err)
	}

	other, _ := uc.SavedJobs(ctx, "c2")
	if len(other) != 0 {
		t.Fatalf("clients must be isolated, got %+v", other)
	}
}

func TestPreferencesUsecase_Theme(t *testing.T) {
	ctx := context.Background()
	uc := NewPreferencesUsecase(preferences.NewMemoryKV(), fixtureStores(), discard())

	th, err := uc.Theme(ctx, "c1")
	if err != nil || th != preferences.ThemeLight {
		t.Fatalf("expected light default, got %q err=%v", th, err)
	}
	if _, err := uc.SetTheme(ctx, "c1", "sepia"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if th, err = uc.SetTheme(ctx, "c1", "dark"); err != nil || th != preferences.ThemeDark {
		t.Fatalf("unexpected: %q err=%v", th, err)
	}
	if th, _ = uc.Theme(ctx, "c1"); th != preferences.ThemeDark {
		t.Fatalf("expected persisted dark, got %q", th)
	}
}

func TestApplyUsecase(t *testing.T) {
	jobs := NewJobListUsecase(fixtureStores(), discard())
	uc := NewApplyUsecase(jobs, discard())

	if _, err := uc.Apply(context.Background(), "c1", "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	r, err := uc.Apply(context.Background(), "c1", "a")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Status != ApplyStatusNotSupported || r.Company != "Acme" {
		t.Fatalf("unexpected receipt: %+v", r)
	}
}
