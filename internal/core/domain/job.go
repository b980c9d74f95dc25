package domain

import "time"

// JobStatus is the lifecycle state of a background job.
// Transitions: running -> completed | failed. No other transition is valid.
type JobStatus string

// Job states.
const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal returns true once the job can no longer change state.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job tracks one asynchronous run (certificate sync or tender analysis).
// Jobs are kept in an injectable registry keyed by ID; there is no shared
// mutable "current job" singleton.
type Job struct {
	// ID is the unique job identifier.
	ID string

	// TenantID is the company the job belongs to. Status queries from
	// other tenants must not see this job.
	TenantID string

	// Kind distinguishes sync jobs from analysis jobs.
	Kind string

	// Status is the lifecycle state.
	Status JobStatus

	// Progress is a percentage in [0,100].
	Progress int

	// Phase is a short human-readable description of the current step.
	Phase string

	// Total and Processed count work items (e.g. files ingested).
	Total     int
	Processed int

	// Error holds the failure message when Status is JobFailed.
	Error string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Job kinds.
const (
	JobKindSync     = "sync"
	JobKindAnalysis = "analysis"
)
