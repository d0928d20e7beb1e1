package job

import (
	"strings"
	"time"
)

const SalaryPlaceholder = "-"

// Job is one listing. It is never mutated after the store is populated.
type Job struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Type        string
	Description string
	Salary      *string
	PostedAt    time.Time
	Tags        []string
}

func (j Job) SalaryText() string {
	if j.Salary == nil {
		return SalaryPlaceholder
	}
	s := strings.TrimSpace(*j.Salary)
	if s == "" {
		return SalaryPlaceholder
	}
	return s
}

func (j Job) HasTag(tag string) bool {
	for _, t := range j.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
