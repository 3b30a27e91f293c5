package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Job kinds consumed by the asynchronous workers.
const (
	JobPDF        = "pdf"
	JobDOICheck   = "doi-check"
	JobDeposit    = "deposit"
	JobRepoDetect = "repo-detect"
	JobReminder   = "reminder"
)

// Job is the stable argument contract handed to a worker: repository,
// issue number, the serialized journal configuration, and one optional
// extra argument. Extra carries a branch name for pdf/doi-check jobs,
// "true"/"false" dry-run for deposit jobs, and the target login for
// reminders.
type Job struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Repository  string          `json:"repository"`
	IssueNumber int             `json:"issue_number"`
	Config      json.RawMessage `json:"config"`
	Extra       string          `json:"extra,omitempty"`

	// RunAt is set (RFC3339) only for jobs scheduled via EnqueueAt.
	RunAt string `json:"run_at,omitempty"`
}

// Queue is fire-and-forget: enqueue succeeds or the request fails, and
// no result is ever awaited.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	EnqueueAt(ctx context.Context, at time.Time, job Job) error
}
