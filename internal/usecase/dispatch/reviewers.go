package dispatch

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vtjnash/whedon-api/internal/domain/review"
)

func (s *Service) assignReviewer(ctx context.Context, req *request, args []string) error {
	name := strings.TrimSpace(args[0])
	if err := s.setReviewers(ctx, req, []string{name}); err != nil {
		return err
	}
	return s.respond(ctx, req, fmt.Sprintf("OK, the reviewer is %s", name))
}

func (s *Service) addReviewer(ctx context.Context, req *request, args []string) error {
	name := strings.TrimSpace(args[0])

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	if err := s.setReviewers(ctx, req, append(review.Reviewers(issue.Body), name)); err != nil {
		return err
	}
	return s.respond(ctx, req, fmt.Sprintf("OK, %s is now a reviewer", name))
}

func (s *Service) removeReviewer(ctx context.Context, req *request, args []string) error {
	name := strings.TrimSpace(args[0])

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}

	kept := make([]string, 0, 4)
	for _, r := range review.Reviewers(issue.Body) {
		if r != name {
			kept = append(kept, r)
		}
	}
	if err := s.setReviewers(ctx, req, kept); err != nil {
		return err
	}
	return s.respond(ctx, req, fmt.Sprintf("OK, %s is no longer a reviewer", name))
}

// setReviewers clobbers the reviewer list. Logins are lower-cased for
// the collaborator and assignee updates while the displayed list keeps
// whatever casing the editor typed; editor logins are never normalized.
// The asymmetry is historical, so it stays and the tests pin it.
func (s *Service) setReviewers(ctx context.Context, req *request, list []string) error {
	logins := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, name := range list {
		login := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
		if login == "" {
			continue
		}
		if _, dup := seen[login]; dup {
			continue
		}
		seen[login] = struct{}{}
		logins = append(logins, login)
	}

	label := "Pending"
	if len(list) > 0 {
		label = strings.Join(list, ", ")
	}

	issue, err := s.issue(ctx, req)
	if err != nil {
		return err
	}
	body := review.SetField(issue.Body, review.FieldReviewers, label)

	for _, login := range logins {
		if err := s.platform.AddCollaborator(ctx, req.ev.Repository, login); err != nil {
			return err
		}
	}

	clear := []string{}
	if err := s.platform.UpdateIssue(ctx, req.ev.Repository, req.ev.IssueNumber, issue.Title, body, &clear); err != nil {
		return err
	}
	req.issue = nil // remote body changed, drop the memo

	editor, err := review.Editor(issue.Body)
	if err != nil {
		return err
	}
	return s.platform.ReplaceAssignees(ctx, req.ev.Repository, req.ev.IssueNumber, union(editor, logins))
}

// union prepends first to rest, deduplicating exact matches.
func union(first string, rest []string) []string {
	out := []string{first}
	for _, login := range rest {
		if !slices.Contains(out, login) {
			out = append(out, login)
		}
	}
	return out
}
