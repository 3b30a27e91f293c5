package dispatch

import (
	"context"
	"strings"

	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/errs"
)

// startReview moves a pre-review issue to its review stage. The review
// site creates the actual review issue; the pre-review thread only gets
// a link and is closed by a human afterward. Legal only when the issue
// is still pre-review and both an editor and at least one reviewer are
// set.
func (s *Service) startReview(ctx context.Context, req *request, _ []string) error {
	if review.TitleKind(req.ev.IssueTitle) == review.KindReview {
		if err := s.respond(ctx, req, "Can't start a review when the review has already started"); err != nil {
			return err
		}
		return review.ErrAlreadyStarted
	}

	if err := s.requireEditor(ctx, req); err != nil {
		return err
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}

	editor, editorErr := review.Editor(issue.Body)
	reviewers := review.Reviewers(issue.Body)
	if editorErr != nil || len(reviewers) == 0 {
		if err := s.respondTemplate(ctx, req, "missing_assignment", map[string]any{"Handle": s.handle}); err != nil {
			return err
		}
		return review.ErrMissingAssignment
	}

	logins := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		logins = append(logins, strings.TrimPrefix(r, "@"))
	}

	reviewID, err := s.site.StartReview(ctx, req.journal.SiteHost, req.journal.SiteAPIKey, req.ev.IssueNumber, editor, logins)
	if err != nil {
		return errs.Wrap(err, "create review issue")
	}

	return s.respondTemplate(ctx, req, "start_review", map[string]any{
		"Repository":    req.ev.Repository,
		"ReviewIssueID": reviewID,
	})
}
