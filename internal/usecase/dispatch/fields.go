package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/vtjnash/whedon-api/internal/domain/review"
)

// assignEditor is a two-step change: rewrite the Editor line (clearing
// assignees in the same update), then notify the review site and
// reconcile the assignee set to editor plus reviewers.
func (s *Service) assignEditor(ctx context.Context, req *request, args []string) error {
	raw := strings.TrimSpace(args[0])
	newEditor := strings.TrimPrefix(raw, "@")

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	body := review.SetField(issue.Body, review.FieldEditor, "@"+newEditor)

	clear := []string{}
	if err := s.platform.UpdateIssue(ctx, req.ev.Repository, req.ev.IssueNumber, issue.Title, body, &clear); err != nil {
		return err
	}
	req.issue = nil

	// JOSE's site never grew this endpoint, so it is skipped there.
	if req.journal.SiteHost != "https://jose.theoj.org" {
		if err := s.site.AssignEditor(ctx, req.journal.SiteHost, req.journal.SiteAPIKey, req.ev.IssueNumber, newEditor); err != nil {
			return err
		}
	}

	logins := make([]string, 0, 4)
	for _, r := range review.Reviewers(issue.Body) {
		logins = append(logins, strings.TrimPrefix(r, "@"))
	}
	if err := s.platform.ReplaceAssignees(ctx, req.ev.Repository, req.ev.IssueNumber, union(newEditor, logins)); err != nil {
		return err
	}

	return s.respond(ctx, req, fmt.Sprintf("OK, the editor is %s", raw))
}

// setArchive validates the DOI shape before touching anything; the
// stored value is the doi.org anchor, which is also how ArchiveDOI
// later decides whether acceptance may proceed.
func (s *Service) setArchive(ctx context.Context, req *request, args []string) error {
	raw := strings.TrimSpace(args[0])
	doi := review.ExtractDOI(raw)
	if doi == "" {
		return s.respond(ctx, req, fmt.Sprintf("%s doesn't look like an archive DOI.", raw))
	}

	link := fmt.Sprintf("<a href=%q target=\"_blank\">%s</a>", "https://doi.org/"+doi, doi)

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	body := review.SetField(issue.Body, review.FieldArchive, link)
	if err := s.platform.UpdateIssue(ctx, req.ev.Repository, req.ev.IssueNumber, issue.Title, body, nil); err != nil {
		return err
	}
	req.issue = nil

	return s.respond(ctx, req, fmt.Sprintf("OK. %s is the archive.", link))
}

func (s *Service) setVersion(ctx context.Context, req *request, args []string) error {
	version := strings.TrimSpace(args[0])
	if version == "" {
		return s.respond(ctx, req, fmt.Sprintf("%s doesn't look like a valid version string.", args[0]))
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	body := review.SetField(issue.Body, review.FieldVersion, version)
	if err := s.platform.UpdateIssue(ctx, req.ev.Repository, req.ev.IssueNumber, issue.Title, body, nil); err != nil {
		return err
	}
	req.issue = nil

	return s.respond(ctx, req, fmt.Sprintf("OK. %s is the version.", version))
}
