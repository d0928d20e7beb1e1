package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"jobfinder/internal/domain/job"
	"jobfinder/internal/preferences"
)

type PreferencesUsecase interface {
	SavedJobs(ctx context.Context, clientID string) ([]job.Job, error)
	AddSaved(ctx context.Context, clientID, jobID string) ([]string, error)
	RemoveSaved(ctx context.Context, clientID, jobID string) ([]string, error)
	ToggleSaved(ctx context.Context, clientID, jobID string) ([]string, bool, error)
	Theme(ctx context.Context, clientID string) (preferences.Theme, error)
	SetTheme(ctx context.Context, clientID, theme string) (preferences.Theme, error)
}

// Preferences scopes saved jobs and theme to one client id per call.
type Preferences struct {
	kv     preferences.KV
	stores StoreProvider
	logger *log.Logger
}

func NewPreferencesUsecase(kv preferences.KV, stores StoreProvider, logger *log.Logger) *Preferences {
	if logger == nil {
		logger = log.Default()
	}
	return &Preferences{kv: kv, stores: stores, logger: logger}
}

// Adapter returns the preference adapter for clientID.
func (u *Preferences) Adapter(clientID string) (*preferences.Adapter, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return preferences.NewAdapter(u.kv, clientID, u.logger), nil
}

func (u *Preferences) knownJob(ctx context.Context, id string) bool {
	if u.stores == nil {
		return false
	}
	s := u.stores.Store(ctx)
	if s == nil {
		return false
	}
	_, ok := s.ByID(id)
	return ok
}

func (u *Preferences) SavedJobs(ctx context.Context, clientID string) ([]job.Job, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return nil, err
	}
	if u.stores == nil {
		return []job.Job{}, nil
	}
	s := u.stores.Store(ctx)
	if s == nil {
		return []job.Job{}, nil
	}
	return s.Pick(a.SavedIDs(ctx)), nil
}

func (u *Preferences) AddSaved(ctx context.Context, clientID, jobID string) ([]string, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return nil, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrInvalidInput
	}
	if !u.knownJob(ctx, jobID) {
		return nil, ErrNotFound
	}
	ids, err := a.AddSaved(ctx, jobID)
	if err != nil {
		u.logger.Printf("[Prefs] add saved failed | client=%s job_id=%s error=%v", clientID, jobID, err)
		return nil, ErrInternal
	}
	return ids.Sorted(), nil
}

// RemoveSaved does not require jobID to exist, so stale ids can always be cleared.
func (u *Preferences) RemoveSaved(ctx context.Context, clientID, jobID string) ([]string, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return nil, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrInvalidInput
	}
	ids, err := a.RemoveSaved(ctx, jobID)
	if err != nil {
		u.logger.Printf("[Prefs] remove saved failed | client=%s job_id=%s error=%v", clientID, jobID, err)
		return nil, ErrInternal
	}
	return ids.Sorted(), nil
}

func (u *Preferences) ToggleSaved(ctx context.Context, clientID, jobID string) ([]string, bool, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return nil, false, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, false, ErrInvalidInput
	}
	if !a.SavedIDs(ctx).Has(jobID) && !u.knownJob(ctx, jobID) {
		return nil, false, ErrNotFound
	}
	ids, saved, err := a.ToggleSaved(ctx, jobID)
	if err != nil {
		u.logger.Printf("[Prefs] toggle saved failed | client=%s job_id=%s error=%v", clientID, jobID, err)
		return nil, false, ErrInternal
	}
	return ids.Sorted(), saved, nil
}

func (u *Preferences) Theme(ctx context.Context, clientID string) (preferences.Theme, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return "", err
	}
	return a.Theme(ctx), nil
}

func (u *Preferences) SetTheme(ctx context.Context, clientID, theme string) (preferences.Theme, error) {
	a, err := u.Adapter(clientID)
	if err != nil {
		return "", err
	}
	t, err := preferences.ParseTheme(theme)
	if err != nil {
		return "", ErrInvalidInput
	}
	if err := a.SetTheme(ctx, t); err != nil {
		if errors.Is(err, preferences.ErrInvalidTheme) {
			return "", ErrInvalidInput
		}
		u.logger.Printf("[Prefs] set theme failed | client=%s error=%v", clientID, err)
		return "", ErrInternal
	}
	return t, nil
}
