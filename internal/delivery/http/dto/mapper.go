package dto

import (
	"time"

	"jobfinder/internal/domain/job"
)

func FromJob(j job.Job) JobResponse {
	posted := ""
	if !j.PostedAt.IsZero() {
		posted = j.PostedAt.UTC().Format(time.RFC3339)
	}
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Type:        j.Type,
		Description: j.Description,
		Salary:      j.Salary,
		SalaryText:  j.SalaryText(),
		PostedAt:    posted,
		Tags:        tags,
	}
}

func FromJobs(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, FromJob(j))
	}
	return out
}
