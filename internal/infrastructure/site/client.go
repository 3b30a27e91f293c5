// Package site adapts the review-site port to the journal application's
// HTTP API. Both endpoints authenticate with a shared secret query
// parameter, matching the site's legacy surface.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vtjnash/whedon-api/internal/errs"
)

type Client struct {
	http *http.Client
}

func New() *Client {
	return &Client{http: &http.Client{Timeout: 30 * time.Second}}
}

func (c *Client) AssignEditor(ctx context.Context, host, secret string, issueNumber int, editor string) error {
	q := url.Values{}
	q.Set("id", strconv.Itoa(issueNumber))
	q.Set("editor", editor)
	q.Set("secret", secret)

	resp, err := c.post(ctx, host+"/papers/api_assign_editor?"+q.Encode())
	if err != nil {
		return errs.Wrap(err, "notify editor change")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify editor change: %s", resp.Status)
	}
	return nil
}

// StartReview asks the site to create the review issue. The response is
// the serialized paper; only its review_issue_id matters here.
func (c *Client) StartReview(ctx context.Context, host, secret string, issueNumber int, editor string, reviewers []string) (int, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(issueNumber))
	q.Set("editor", editor)
	q.Set("reviewers", strings.Join(reviewers, ","))
	q.Set("secret", secret)

	resp, err := c.post(ctx, host+"/papers/api_start_review?"+q.Encode())
	if err != nil {
		return 0, errs.Wrap(err, "start review")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("start review: %s", resp.Status)
	}

	var paper struct {
		ReviewIssueID int `json:"review_issue_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return 0, errs.Wrap(err, "decode start review response")
	}
	if paper.ReviewIssueID == 0 {
		return 0, fmt.Errorf("start review: response carried no review_issue_id")
	}
	return paper.ReviewIssueID, nil
}

func (c *Client) post(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}
