package dispatch

import (
	"context"
	"slices"

	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/ports"
)

// sayHello greets a freshly opened issue. Review issues get the
// reviewer briefing, pre-review issues a welcome addressed to the first
// assignee when one exists. Every open then fires the PDF build and the
// repository language/license scan, independent of which message went
// out.
func (s *Service) sayHello(ctx context.Context, req *request) error {
	if review.TitleKind(req.ev.IssueTitle) == review.KindReview {
		data := map[string]any{
			"Handle":        s.handle,
			"Repository":    req.ev.Repository,
			"ReviewersList": req.journal.ReviewersList,
		}
		if err := s.respondTemplate(ctx, req, "reviewer_welcome", data); err != nil {
			return err
		}
		return s.openingJobs(ctx, req)
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}

	editor := ""
	if len(issue.Assignees) > 0 {
		editor = issue.Assignees[0]
	}
	data := map[string]any{
		"Handle":        s.handle,
		"Editor":        editor,
		"ReviewersList": req.journal.ReviewersList,
	}
	if err := s.respondTemplate(ctx, req, "welcome", data); err != nil {
		return err
	}
	return s.openingJobs(ctx, req)
}

func (s *Service) openingJobs(ctx context.Context, req *request) error {
	if err := s.enqueueJob(ctx, req, ports.JobRepoDetect, ""); err != nil {
		return err
	}
	return s.processPDF(ctx, req, "")
}

// sayGoodbye reacts to closures. Only an accepted review issue earns a
// reply; pre-review closures and unaccepted reviews pass silently.
func (s *Service) sayGoodbye(ctx context.Context, req *request) error {
	if review.TitleKind(req.ev.IssueTitle) != review.KindReview {
		return nil
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	if !slices.Contains(issue.Labels, "accepted") {
		return nil
	}

	return s.respondTemplate(ctx, req, "goodbye", map[string]any{
		"DOIPrefix":       req.journal.DOIPrefix,
		"Alias":           req.journal.Alias,
		"IssueNumber":     req.ev.IssueNumber,
		"DonateURL":       req.journal.DonateURL,
		"ReviewersSignup": req.journal.ReviewersSignup,
	})
}
