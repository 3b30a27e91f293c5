package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vtjnash/whedon-api/internal/ports"
)

func TestEncodeJob(t *testing.T) {
	t.Parallel()

	msg, err := encodeJob(ports.Job{
		Kind:        ports.JobPDF,
		Repository:  "openjournals/joss-reviews",
		IssueNumber: 936,
		Config:      json.RawMessage(`{"alias":"joss"}`),
		Extra:       "paper-fixes",
	}, time.Time{})
	if err != nil {
		t.Fatalf("encodeJob() error = %v", err)
	}

	if msg.Subject != "jobs.pdf" {
		t.Fatalf("subject = %q, want jobs.pdf", msg.Subject)
	}
	if msg.Header.Get("Nats-Msg-Id") == "" {
		t.Fatal("Nats-Msg-Id header empty, want generated id")
	}
	if msg.Header.Get("Whedon-Run-At") != "" {
		t.Fatalf("Whedon-Run-At = %q, want unset for immediate jobs", msg.Header.Get("Whedon-Run-At"))
	}

	var job ports.Job
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if job.ID == "" {
		t.Fatal("job id empty, want generated id")
	}
	if job.Repository != "openjournals/joss-reviews" || job.IssueNumber != 936 || job.Extra != "paper-fixes" {
		t.Fatalf("job = %+v, want fields preserved", job)
	}
	if job.RunAt != "" {
		t.Fatalf("run_at = %q, want empty for immediate jobs", job.RunAt)
	}
}

func TestEncodeJobScheduled(t *testing.T) {
	t.Parallel()

	at := time.Date(2020, time.March, 15, 12, 0, 0, 0, time.UTC)
	msg, err := encodeJob(ports.Job{
		Kind:       ports.JobReminder,
		Repository: "openjournals/joss-reviews",
		Extra:      "@maelle",
	}, at)
	if err != nil {
		t.Fatalf("encodeJob() error = %v", err)
	}

	want := "2020-03-15T12:00:00Z"
	if msg.Header.Get("Whedon-Run-At") != want {
		t.Fatalf("Whedon-Run-At = %q, want %q", msg.Header.Get("Whedon-Run-At"), want)
	}

	var job ports.Job
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if job.RunAt != want {
		t.Fatalf("run_at = %q, want %q", job.RunAt, want)
	}
}

func TestEncodeJobValidation(t *testing.T) {
	t.Parallel()

	if _, err := encodeJob(ports.Job{Repository: "a/b"}, time.Time{}); err == nil {
		t.Fatal("encodeJob(no kind) error = nil, want validation failure")
	}
	if _, err := encodeJob(ports.Job{Kind: ports.JobPDF}, time.Time{}); err == nil {
		t.Fatal("encodeJob(no repository) error = nil, want validation failure")
	}
	if _, err := encodeJob(ports.Job{Kind: ports.JobPDF, Repository: "a/b", ID: "fixed"}, time.Time{}); err != nil {
		t.Fatal("encodeJob(explicit id) should succeed")
	}
}
