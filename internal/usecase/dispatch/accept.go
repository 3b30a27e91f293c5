package dispatch

import (
	"context"

	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/ports"
)

func (s *Service) acceptDryRun(ctx context.Context, req *request, _ []string) error {
	return s.accept(ctx, req, true)
}

func (s *Service) acceptLive(ctx context.Context, req *request, _ []string) error {
	return s.accept(ctx, req, false)
}

// accept drives paper acceptance. A dry run validates and queues the
// downstream checks without publishing or labeling; the live run labels
// the issue "accepted" and queues the real deposit. Both demand an
// archive DOI first.
func (s *Service) accept(ctx context.Context, req *request, dryRun bool) error {
	if review.TitleKind(req.ev.IssueTitle) != review.KindReview {
		return s.respond(ctx, req, "I can't accept a paper that hasn't been reviewed!")
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := review.ArchiveDOI(issue.Body); !ok {
		return s.respond(ctx, req, "No archive DOI set. Exiting...")
	}

	if dryRun {
		if err := s.respond(ctx, req, "```\nAttempting dry run of processing paper acceptance...\n```"); err != nil {
			return err
		}
		if err := s.enqueueJob(ctx, req, ports.JobDOICheck, ""); err != nil {
			return err
		}
		return s.enqueueJob(ctx, req, ports.JobDeposit, "true")
	}

	if err := s.platform.LabelIssue(ctx, req.ev.Repository, req.ev.IssueNumber, "accepted"); err != nil {
		return err
	}
	if err := s.respond(ctx, req, "```\nDoing it live! Attempting automated processing of paper acceptance...\n```"); err != nil {
		return err
	}
	return s.enqueueJob(ctx, req, ports.JobDeposit, "false")
}
