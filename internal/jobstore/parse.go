package jobstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobfinder/internal/domain/job"
)

var ErrInvalidDataset = errors.New("invalid job dataset")

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawJob struct {
	ID          flexString  `json:"id"`
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Salary      *flexString `json:"salary"`
	PostedAt    flexString  `json:"postedAt"`
	Tags        []string    `json:"tags"`
}

type wrappedDataset struct {
	Jobs []rawJob `json:"jobs"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parsePostedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// Parse decodes a dataset document. Both a top-level array and an object with a
// "jobs" array are accepted. Records without an id are dropped and repeated ids
// keep their first occurrence.
func Parse(b []byte) ([]job.Job, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDataset)
	}

	var raws []rawJob
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
	case '{':
		var w wrappedDataset
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		raws = w.Jobs
	default:
		return nil, fmt.Errorf("%w: unexpected token %q", ErrInvalidDataset, b[0])
	}

	seen := make(map[string]struct{}, len(raws))
	out := make([]job.Job, 0, len(raws))
	for _, r := range raws {
		id := strings.TrimSpace(string(r.ID))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			tags = append(tags, t)
		}

		// A null or absent salary stays nil so it renders as the placeholder.
		var salary *string
		if r.Salary != nil {
			v := string(*r.Salary)
			salary = &v
		}

		out = append(out, job.Job{
			ID:          id,
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			Type:        r.Type,
			Description: r.Description,
			Salary:      salary,
			PostedAt:    parsePostedAt(string(r.PostedAt)),
			Tags:        tags,
		})
	}
	return out, nil
}
