package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/vtjnash/whedon-api/internal/ports"
)

func trimArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}

// enqueueJob fires one worker job with the request's journal serialized
// into the payload.
func (s *Service) enqueueJob(ctx context.Context, req *request, kind, extra string) error {
	cfg, err := req.journal.Serialized()
	if err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, ports.Job{
		Kind:        kind,
		Repository:  req.ev.Repository,
		IssueNumber: req.ev.IssueNumber,
		Config:      cfg,
		Extra:       extra,
	})
}

func (s *Service) generatePDF(ctx context.Context, req *request, _ []string) error {
	return s.processPDF(ctx, req, "")
}

func (s *Service) generatePDFFromBranch(ctx context.Context, req *request, args []string) error {
	return s.processPDF(ctx, req, trimArg(args))
}

func (s *Service) processPDF(ctx context.Context, req *request, branch string) error {
	msg := "```\nAttempting PDF compilation. Reticulating splines etc...\n```"
	if branch != "" {
		msg = fmt.Sprintf("```\nAttempting PDF compilation from custom branch %s. Reticulating splines etc...\n```", branch)
	}
	if err := s.respond(ctx, req, msg); err != nil {
		return err
	}
	return s.enqueueJob(ctx, req, ports.JobPDF, branch)
}

func (s *Service) checkReferences(ctx context.Context, req *request, _ []string) error {
	return s.checkRefs(ctx, req, "")
}

func (s *Service) checkReferencesFromBranch(ctx context.Context, req *request, args []string) error {
	return s.checkRefs(ctx, req, trimArg(args))
}

func (s *Service) checkRefs(ctx context.Context, req *request, branch string) error {
	msg := "```\nAttempting to check references...\n```"
	if branch != "" {
		msg = fmt.Sprintf("```\nAttempting to check references... from custom branch %s\n```", branch)
	}
	if err := s.respond(ctx, req, msg); err != nil {
		return err
	}
	return s.enqueueJob(ctx, req, ports.JobDOICheck, branch)
}
