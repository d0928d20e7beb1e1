package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	ErrInvalidTheme = errors.New("invalid theme")
	ErrEmptyID      = errors.New("empty job id")
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// KV is the durable key-value store behind the adapter.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s IDSet) clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Adapter reads and writes one client's saved ids and theme. Reads never fail: an absent
// or unreadable value yields the default (empty set, light theme).
type Adapter struct {
	kv       KV
	clientID string
	logger   *log.Logger
}

func NewAdapter(kv KV, clientID string, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{kv: kv, clientID: strings.TrimSpace(clientID), logger: logger}
}

func (a *Adapter) savedKey() string {
	return "jobfinder:" + a.clientID + ":saved"
}

func (a *Adapter) themeKey() string {
	return "jobfinder:" + a.clientID + ":theme"
}

func (a *Adapter) SavedIDs(ctx context.Context) IDSet {
	raw, ok, err := a.kv.Get(ctx, a.savedKey())
	if err != nil {
		a.logger.Printf("[Prefs] read failed, using empty saved set | client=%s error=%v", a.clientID, err)
		return IDSet{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return IDSet{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		a.logger.Printf("[Prefs] corrupt saved set, using empty | client=%s error=%v", a.clientID, err)
		return IDSet{}
	}
	return NewIDSet(ids...)
}

func (a *Adapter) SetSavedIDs(ctx context.Context, ids IDSet) error {
	b, err := json.Marshal(ids.Sorted())
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, a.savedKey(), string(b))
}

func (a *Adapter) Theme(ctx context.Context) Theme {
	raw, ok, err := a.kv.Get(ctx, a.themeKey())
	if err != nil {
		a.logger.Printf("[Prefs] read failed, using light theme | client=%s error=%v", a.clientID, err)
		return ThemeLight
	}
	if !ok {
		return ThemeLight
	}
	t, err := ParseTheme(raw)
	if err != nil {
		a.logger.Printf("[Prefs] corrupt theme, using light | client=%s value=%q", a.clientID, raw)
		return ThemeLight
	}
	return t
}

func (a *Adapter) SetTheme(ctx context.Context, t Theme) error {
	t, err := ParseTheme(string(t))
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, a.themeKey(), string(t))
}

// AddSaved is a no-op when id is already saved.
func (a *Adapter) AddSaved(ctx context.Context, id string) (IDSet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}
	cur := a.SavedIDs(ctx)
	if cur.Has(id) {
		return cur, nil
	}
	next := cur.clone()
	next[id] = struct{}{}
	if err := a.SetSavedIDs(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}

// RemoveSaved is a no-op when id is not saved.
func (a *Adapter) RemoveSaved(ctx context.Context, id string) (IDSet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}
	cur := a.SavedIDs(ctx)
	if !cur.Has(id) {
		return cur, nil
	}
	next := cur.clone()
	delete(next, id)
	if err := a.SetSavedIDs(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}

// ToggleSaved flips membership of id and persists the resulting set.
func (a *Adapter) ToggleSaved(ctx context.Context, id string) (IDSet, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, ErrEmptyID
	}
	cur := a.SavedIDs(ctx)
	next := cur.clone()
	saved := !cur.Has(id)
	if saved {
		next[id] = struct{}{}
	} else {
		delete(next, id)
	}
	if err := a.SetSavedIDs(ctx, next); err != nil {
		return cur, cur.Has(id), err
	}
	return next, saved, nil
}

func (a *Adapter) ToggleTheme(ctx context.Context) (Theme, error) {
	next := a.Theme(ctx).Toggle()
	if err := a.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
