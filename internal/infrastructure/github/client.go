// Package github adapts the hosting platform port to the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/vtjnash/whedon-api/internal/errs"
	"github.com/vtjnash/whedon-api/internal/ports"
)

// Client implements ports.Platform. Most calls go through go-github; the
// assignee replacement hits the REST surface directly (see
// ReplaceAssignees).
type Client struct {
	gh    *gh.Client
	rest  *http.Client
	token string

	// baseURL is the REST root for the direct assignee call. Tests
	// point it at a local server.
	baseURL string
}

func New(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		gh:      gh.NewClient(oauth2.NewClient(ctx, ts)),
		rest:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: "https://api.github.com",
	}
}

func splitRepo(full string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(full, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository full name %q", full)
	}
	return owner, name, nil
}

func (c *Client) Issue(ctx context.Context, repo string, number int) (ports.Issue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return ports.Issue{}, err
	}

	issue, _, err := c.gh.Issues.Get(ctx, owner, name, number)
	if err != nil {
		return ports.Issue{}, errs.Wrapf(err, "get issue %s#%d", repo, number)
	}

	out := ports.Issue{
		Title: issue.GetTitle(),
		Body:  issue.GetBody(),
	}
	for _, a := range issue.Assignees {
		out.Assignees = append(out.Assignees, a.GetLogin())
	}
	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out, nil
}

func (c *Client) UpdateIssue(ctx context.Context, repo string, number int, title, body string, assignees *[]string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	req := &gh.IssueRequest{Title: &title, Body: &body}
	if assignees != nil {
		req.Assignees = assignees
	}

	if _, _, err := c.gh.Issues.Edit(ctx, owner, name, number, req); err != nil {
		return errs.Wrapf(err, "update issue %s#%d", repo, number)
	}
	return nil
}

func (c *Client) AddComment(ctx context.Context, repo string, number int, text string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	comment := &gh.IssueComment{Body: &text}
	if _, _, err := c.gh.Issues.CreateComment(ctx, owner, name, number, comment); err != nil {
		return errs.Wrapf(err, "comment on %s#%d", repo, number)
	}
	return nil
}

func (c *Client) AddCollaborator(ctx context.Context, repo string, login string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	if _, _, err := c.gh.Repositories.AddCollaborator(ctx, owner, name, login, nil); err != nil {
		return errs.Wrapf(err, "add collaborator %s to %s", login, repo)
	}
	return nil
}

func (c *Client) LabelIssue(ctx context.Context, repo string, number int, labels ...string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	if _, _, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, name, number, labels); err != nil {
		return errs.Wrapf(err, "label issue %s#%d", repo, number)
	}
	return nil
}

func (c *Client) TeamMembers(ctx context.Context, team string) ([]string, error) {
	org, slug, ok := strings.Cut(team, "/")
	if !ok || org == "" || slug == "" {
		return nil, fmt.Errorf("team must be org/slug, got %q", team)
	}

	var logins []string
	opts := &gh.TeamListTeamMembersOptions{ListOptions: gh.ListOptions{PerPage: 100}}
	for {
		members, resp, err := c.gh.Teams.ListTeamMembersBySlug(ctx, org, slug, opts)
		if err != nil {
			return nil, errs.Wrapf(err, "list members of %s", team)
		}
		for _, m := range members {
			logins = append(logins, m.GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return logins, nil
}

// ReplaceAssignees posts to the assignees route directly instead of going
// through go-github: the issue-edit route drops assignee-only updates in
// some issue states, so the bot has always driven this one by hand.
func (c *Client) ReplaceAssignees(ctx context.Context, repo string, number int, logins []string) error {
	payload, err := json.Marshal(map[string][]string{"assignees": logins})
	if err != nil {
		return errs.Wrap(err, "encode assignees")
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/assignees", c.baseURL, repo, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "build assignees request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.rest.Do(req)
	if err != nil {
		return errs.Wrapf(err, "replace assignees on %s#%d", repo, number)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("replace assignees on %s#%d: %s", repo, number, resp.Status)
	}
	return nil
}
