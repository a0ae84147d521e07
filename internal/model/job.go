package model

import "time"

// JobStatus tracks an async research job through its lifecycle.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobRunning  JobStatus = "running"
	JobComplete JobStatus = "complete"
	JobFailed   JobStatus = "failed"
)

// ResearchResult is the outcome of one pipeline run. Records carries the
// flat persistence projection of Profiles, one per profile in rank order.
type ResearchResult struct {
	Profiles        []BusinessProfile `json:"profiles"`
	Records         []Record          `json:"records"`
	CandidatesFound int               `json:"candidates_found"`
	SuccessRate     float64           `json:"success_rate"`
	Elapsed         time.Duration     `json:"elapsed"`
	Timestamp       time.Time         `json:"timestamp"`
}

// ResearchJob is a persisted research task.
type ResearchJob struct {
	ID        string          `json:"id"`
	Status    JobStatus       `json:"status"`
	Request   ResearchRequest `json:"request"`
	Result    *ResearchResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
