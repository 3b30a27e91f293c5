// Package queue implements the job queue port on NATS JetStream. Jobs
// are published to jobs.<kind> and consumed by the workers elsewhere;
// nothing here waits for results.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/vtjnash/whedon-api/internal/bootstrap/logging"
	"github.com/vtjnash/whedon-api/internal/errs"
	"github.com/vtjnash/whedon-api/internal/ports"
)

const streamName = "WHEDON"

type Queue struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect dials NATS and ensures the job stream exists.
func Connect(ctx context.Context, url string) (*Queue, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, errs.Wrap(err, "init jetstream")
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"jobs.>"},
	}); err != nil {
		nc.Close()
		return nil, errs.Wrap(err, "ensure job stream")
	}

	logging.Info(ctx, "nats connected", slog.String("url", url), slog.String("stream", streamName))
	return &Queue{nc: nc, js: js}, nil
}

func (q *Queue) Enqueue(ctx context.Context, job ports.Job) error {
	return q.publish(ctx, job, time.Time{})
}

// EnqueueAt publishes immediately with a run_at stamp; JetStream has no
// native delayed delivery, so honoring the timestamp is the reminder
// worker's job.
func (q *Queue) EnqueueAt(ctx context.Context, at time.Time, job ports.Job) error {
	return q.publish(ctx, job, at)
}

func (q *Queue) publish(ctx context.Context, job ports.Job, at time.Time) error {
	msg, err := encodeJob(job, at)
	if err != nil {
		return err
	}
	if _, err := q.js.PublishMsg(ctx, msg); err != nil {
		return errs.Wrapf(err, "publish %s", msg.Subject)
	}
	return nil
}

// Drain processes buffered publishes before closing the connection.
func (q *Queue) Drain() error {
	return q.nc.Drain()
}

// encodeJob is pure so the wire contract can be pinned without a broker.
func encodeJob(job ports.Job, at time.Time) (*nats.Msg, error) {
	if job.Kind == "" {
		return nil, errors.New("job kind is required")
	}
	if job.Repository == "" {
		return nil, errors.New("job repository is required")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if !at.IsZero() {
		job.RunAt = at.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, errs.Wrap(err, "encode job")
	}

	header := nats.Header{}
	header.Set("Nats-Msg-Id", job.ID)
	if job.RunAt != "" {
		header.Set("Whedon-Run-At", job.RunAt)
	}

	return &nats.Msg{
		Subject: "jobs." + job.Kind,
		Data:    data,
		Header:  header,
	}, nil
}
