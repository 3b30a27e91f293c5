package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAssignEditor(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New()
	if err := c.AssignEditor(context.Background(), srv.URL, "sekrit", 936, "edith"); err != nil {
		t.Fatalf("AssignEditor() error = %v", err)
	}

	if got.Method != http.MethodPost {
		t.Fatalf("method = %q, want POST", got.Method)
	}
	if got.URL.Path != "/papers/api_assign_editor" {
		t.Fatalf("path = %q, want /papers/api_assign_editor", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("id") != "936" || q.Get("editor") != "edith" || q.Get("secret") != "sekrit" {
		t.Fatalf("query = %v, want id/editor/secret", q)
	}
}

func TestAssignEditorSiteFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New()
	if err := c.AssignEditor(context.Background(), srv.URL, "wrong", 936, "edith"); err == nil {
		t.Fatal("AssignEditor() error = nil, want site failure")
	}
}

func TestStartReview(t *testing.T) {
	t.Parallel()

	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "state": "under_review", "review_issue_id": 937}`))
	}))
	defer srv.Close()

	c := New()
	id, err := c.StartReview(context.Background(), srv.URL, "sekrit", 936, "edith", []string{"maelle", "jgosmann"})
	if err != nil {
		t.Fatalf("StartReview() error = %v", err)
	}
	if id != 937 {
		t.Fatalf("review issue id = %d, want 937", id)
	}

	if got.URL.Path != "/papers/api_start_review" {
		t.Fatalf("path = %q, want /papers/api_start_review", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("reviewers") != "maelle,jgosmann" {
		t.Fatalf("reviewers = %q, want comma-joined list", q.Get("reviewers"))
	}
	if q.Get("editor") != "edith" || q.Get("id") != "936" || q.Get("secret") != "sekrit" {
		t.Fatalf("query = %v, want editor/id/secret", q)
	}
}

func TestStartReviewWithoutReviewIssueID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	c := New()
	if _, err := c.StartReview(context.Background(), srv.URL, "sekrit", 936, "edith", nil); err == nil {
		t.Fatal("StartReview() error = nil, want missing review_issue_id failure")
	}
}
