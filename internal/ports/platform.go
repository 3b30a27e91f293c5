package ports

import "context"

// Issue is the subset of a hosted issue this system reads.
type Issue struct {
	Title     string
	Body      string
	Assignees []string
	Labels    []string
}

// Platform is the code-hosting side: issue reads and mutations, comments,
// collaborator and team-roster lookups. Calls block and are never retried
// here; a failed call fails the whole request.
type Platform interface {
	// Issue fetches one issue by repository full name and number.
	Issue(ctx context.Context, repo string, number int) (Issue, error)

	// UpdateIssue rewrites title and body. A nil assignees pointer leaves
	// assignees alone; an empty slice clears them.
	UpdateIssue(ctx context.Context, repo string, number int, title, body string, assignees *[]string) error

	AddComment(ctx context.Context, repo string, number int, text string) error
	AddCollaborator(ctx context.Context, repo string, login string) error
	LabelIssue(ctx context.Context, repo string, number int, labels ...string) error

	// ReplaceAssignees swaps the full assignee set on an issue.
	ReplaceAssignees(ctx context.Context, repo string, number int, logins []string) error

	// TeamMembers resolves a team given as "org/slug" to its member logins.
	TeamMembers(ctx context.Context, team string) ([]string, error)
}
