package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/ports"
)

// remind schedules a nudge for a participant: "remind @login in 2
// weeks". The target must appear literally in the issue body (a crude
// participant check) and reminders only exist on review issues; either
// failure explains itself in a comment and schedules nothing.
func (s *Service) remind(ctx context.Context, req *request, args []string) error {
	human := strings.TrimSpace(args[0])
	size := strings.TrimSpace(args[1])
	unit := strings.TrimSpace(args[2])

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}

	if !strings.Contains(issue.Body, human) {
		return s.respond(ctx, req, fmt.Sprintf("%s doesn't seem to be a reviewer or author for this submission.", human))
	}
	if review.TitleKind(issue.Title) != review.KindReview {
		return s.respond(ctx, req, "Sorry, I can't set reminders on PRE-REVIEW issues.")
	}

	at, err := s.targetTime(size, unit)
	if err != nil {
		return s.respond(ctx, req, fmt.Sprintf("I don't recognize this description of time '%s' '%s'.", size, unit))
	}

	cfg, err := req.journal.Serialized()
	if err != nil {
		return err
	}
	if err := s.queue.EnqueueAt(ctx, at, ports.Job{
		Kind:        ports.JobReminder,
		Repository:  req.ev.Repository,
		IssueNumber: req.ev.IssueNumber,
		Config:      cfg,
		Extra:       human,
	}); err != nil {
		return err
	}

	return s.respond(ctx, req, fmt.Sprintf("Reminder set for %s in %s %s", human, size, unit))
}

// targetTime turns "2 weeks" into an absolute timestamp via the
// natural-language date parser.
func (s *Service) targetTime(size, unit string) (time.Time, error) {
	r, err := s.clock.Parse(fmt.Sprintf("in %s %s", size, unit), s.now())
	if err != nil || r == nil {
		return time.Time{}, review.ErrUnparsableTime
	}
	return r.Time, nil
}
