// Package dispatch is the command dispatcher and review-state machine:
// it routes classified webhook events to lifecycle handlers or to the
// command table parsed out of comment text, gates each command on the
// sender's role, mutates issue-body state, and enqueues worker jobs.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/vtjnash/whedon-api/internal/bootstrap/config"
	"github.com/vtjnash/whedon-api/internal/bootstrap/logging"
	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/ports"
)

type Service struct {
	registry *config.Registry
	platform ports.Platform
	site     ports.ReviewSite
	queue    ports.Queue

	handle string
	routes []route
	clock  *when.Parser
	now    func() time.Time
}

// NewService wires the dispatcher. botHandle is the login commands are
// addressed to; empty defaults to "whedon".
func NewService(registry *config.Registry, platform ports.Platform, site ports.ReviewSite, queue ports.Queue, botHandle string) *Service {
	if botHandle == "" {
		botHandle = "whedon"
	}

	clock := when.New(nil)
	clock.Add(en.All...)
	clock.Add(common.All...)

	return &Service{
		registry: registry,
		platform: platform,
		site:     site,
		queue:    queue,
		handle:   botHandle,
		routes:   buildRoutes(botHandle),
		clock:    clock,
		now:      time.Now,
	}
}

// request carries one delivery's context: the event, its journal, and a
// memoized fetch of the issue it concerns. Deliveries never share state.
type request struct {
	ev      review.Event
	journal *config.Journal
	issue   *ports.Issue
}

// Dispatch routes one classified event. Unknown repositories are
// rejected before anything else happens, and no comment is ever posted
// for them.
func (s *Service) Dispatch(ctx context.Context, ev review.Event) error {
	journal := s.registry.Lookup(ev.Repository)
	if journal == nil {
		return review.ErrUnknownRepository
	}

	ctx = logging.WithAttrs(
		ctx,
		slog.String("repository", ev.Repository),
		slog.Int("issue", ev.IssueNumber),
		slog.String("action", ev.Action),
		slog.String("sender", ev.Sender),
	)

	req := &request{ev: ev, journal: journal}

	switch ev.Action {
	case review.ActionOpened:
		return s.sayHello(ctx, req)
	case review.ActionClosed:
		return s.sayGoodbye(ctx, req)
	case review.ActionCreated:
		if ev.Message == "" {
			return nil
		}
		return s.dispatchCommand(ctx, req)
	}
	return nil
}

func (s *Service) dispatchCommand(ctx context.Context, req *request) error {
	for _, r := range s.routes {
		m := r.re.FindStringSubmatch(req.ev.Message)
		if m == nil {
			continue
		}
		if err := s.authorize(ctx, req, r.role); err != nil {
			return err
		}
		logging.Info(ctx, "handling command", slog.String("command", m[0]))
		return r.handler(s, ctx, req, m[1:])
	}

	// Unmatched chatter is deliberately ignored: the bot only reacts to
	// direct commands.
	return nil
}

// issue fetches the event's issue once per request.
func (s *Service) issue(ctx context.Context, req *request) (ports.Issue, error) {
	if req.issue != nil {
		return *req.issue, nil
	}
	issue, err := s.platform.Issue(ctx, req.ev.Repository, req.ev.IssueNumber)
	if err != nil {
		return ports.Issue{}, err
	}
	req.issue = &issue
	return issue, nil
}

// respond posts a comment back to the issue thread the event came from.
func (s *Service) respond(ctx context.Context, req *request, text string) error {
	return s.platform.AddComment(ctx, req.ev.Repository, req.ev.IssueNumber, text)
}
