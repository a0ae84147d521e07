// Package store persists research jobs and their results.
package store

import (
	"context"

	"github.com/sells-group/subrecon/internal/model"
)

// JobFilter specifies criteria for listing jobs.
type JobFilter struct {
	Status model.JobStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for research jobs.
type Store interface {
	CreateJob(ctx context.Context, req model.ResearchRequest) (*model.ResearchJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error
	CompleteJob(ctx context.Context, jobID string, result *model.ResearchResult) error
	FailJob(ctx context.Context, jobID string, reason string) error
	GetJob(ctx context.Context, jobID string) (*model.ResearchJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.ResearchJob, error)

	Migrate(ctx context.Context) error
	Close() error
}
