package usecase

import (
	"context"
	"log"
	"strings"
	"time"
)

const ApplyStatusNotSupported = "not_supported"

type ApplyReceipt struct {
	JobID       string
	Company     string
	Status      string
	RequestedAt time.Time
}

// Apply acknowledges an application request without storing or forwarding it.
type Apply struct {
	jobs   JobListUsecase
	logger *log.Logger
	now    func() time.Time
}

func NewApplyUsecase(jobs JobListUsecase, logger *log.Logger) *Apply {
	if logger == nil {
		logger = log.Default()
	}
	return &Apply{jobs: jobs, logger: logger, now: time.Now}
}

func (u *Apply) Apply(ctx context.Context, clientID, jobID string) (ApplyReceipt, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return ApplyReceipt{}, ErrInvalidInput
	}
	j, err := u.jobs.GetJob(ctx, jobID)
	if err != nil {
		return ApplyReceipt{}, err
	}
	u.logger.Printf("[Apply] requested | client=%s job_id=%s company=%q", clientID, j.ID, j.Company)
	return ApplyReceipt{
		JobID:       j.ID,
		Company:     j.Company,
		Status:      ApplyStatusNotSupported,
		RequestedAt: u.now().UTC(),
	}, nil
}
