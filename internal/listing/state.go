package listing

import (
	"sort"
	"strings"
)

// PageSize is the number of results added by each "load more".
const PageSize = 4

type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortTitleAsc SortKey = "title-ascending"
)

// ParseSort maps user input to a SortKey. "title" is accepted as an alias of
// title-ascending; anything unknown falls back to newest.
func ParseSort(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortTitleAsc), "title", "title-asc":
		return SortTitleAsc
	default:
		return SortNewest
	}
}

// State is the full set of user-chosen criteria. It is a value: every updater returns a
// new State and leaves the receiver untouched.
type State struct {
	query    string
	location string
	jobType  string
	tags     []string
	sort     SortKey
	visible  int
}

func DefaultState() State {
	return State{sort: SortNewest, visible: PageSize}
}

func (s State) Query() string    { return s.query }
func (s State) Location() string { return s.location }
func (s State) Type() string     { return s.jobType }
func (s State) Visible() int     { return s.visible }

func (s State) Sort() SortKey {
	if s.sort == "" {
		return SortNewest
	}
	return s.sort
}

func (s State) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s State) HasTag(tag string) bool {
	i := sort.SearchStrings(s.tags, tag)
	return i < len(s.tags) && s.tags[i] == tag
}

// IsDefault reports whether no filter is active and the sort is the default one.
func (s State) IsDefault() bool {
	return s.query == "" && s.location == "" && s.jobType == "" && len(s.tags) == 0 && s.Sort() == SortNewest
}

func (s State) reset() State {
	s.visible = PageSize
	return s
}

// WithQuery stores the trimmed, lowercased query. A whitespace-only query clears it.
func (s State) WithQuery(q string) State {
	s.query = strings.ToLower(strings.TrimSpace(q))
	return s.reset()
}

func (s State) WithLocation(loc string) State {
	s.location = normalizeAny(loc)
	return s.reset()
}

func (s State) WithType(t string) State {
	s.jobType = normalizeAny(t)
	return s.reset()
}

func (s State) WithSort(k SortKey) State {
	s.sort = ParseSort(string(k))
	return s.reset()
}

func (s State) WithTag(tag string) State {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.HasTag(tag) {
		return s.reset()
	}
	tags := make([]string, 0, len(s.tags)+1)
	tags = append(tags, s.tags...)
	tags = append(tags, tag)
	sort.Strings(tags)
	s.tags = tags
	return s.reset()
}

func (s State) WithoutTag(tag string) State {
	if !s.HasTag(tag) {
		return s.reset()
	}
	tags := make([]string, 0, len(s.tags)-1)
	for _, t := range s.tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	s.tags = tags
	return s.reset()
}

func (s State) ToggleTag(tag string) State {
	if s.HasTag(strings.TrimSpace(tag)) {
		return s.WithoutTag(strings.TrimSpace(tag))
	}
	return s.WithTag(tag)
}

func (s State) WithTags(tags []string) State {
	s.tags = nil
	for _, t := range tags {
		s = s.WithTag(t)
	}
	return s.reset()
}

func (s State) LoadMore() State {
	if s.visible < PageSize {
		s.visible = PageSize
	}
	s.visible += PageSize
	return s
}

// WithVisible restores a visible-count carried outside the session (for example in a
// query string). Values below one page are raised to one page.
func (s State) WithVisible(n int) State {
	if n < PageSize {
		n = PageSize
	}
	s.visible = n
	return s
}

func (s State) Clear() State {
	return DefaultState()
}

func normalizeAny(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "any") || strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
