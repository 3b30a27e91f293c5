package ports

import "context"

// ReviewSite is the journal's web application. Both calls authenticate
// with a shared secret carried as a query parameter.
type ReviewSite interface {
	// AssignEditor tells the site the submission's editor changed.
	AssignEditor(ctx context.Context, host, secret string, issueNumber int, editor string) error

	// StartReview asks the site to create the review issue and returns
	// its number.
	StartReview(ctx context.Context, host, secret string, issueNumber int, editor string, reviewers []string) (int, error)
}
