package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestSplitRepo(t *testing.T) {
	t.Parallel()

	owner, name, err := splitRepo("openjournals/joss-reviews")
	if err != nil {
		t.Fatalf("splitRepo() error = %v", err)
	}
	if owner != "openjournals" || name != "joss-reviews" {
		t.Fatalf("splitRepo() = %q/%q, want openjournals/joss-reviews", owner, name)
	}

	for _, bad := range []string{"", "noslash", "/name", "owner/"} {
		if _, _, err := splitRepo(bad); err == nil {
			t.Fatalf("splitRepo(%q) error = nil, want invalid name", bad)
		}
	}
}

func TestReplaceAssignees(t *testing.T) {
	t.Parallel()

	var got *http.Request
	var payload map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(context.Background(), "token123")
	c.baseURL = srv.URL

	if err := c.ReplaceAssignees(context.Background(), "openjournals/joss-reviews", 936, []string{"edith", "maelle"}); err != nil {
		t.Fatalf("ReplaceAssignees() error = %v", err)
	}

	if got.URL.Path != "/repos/openjournals/joss-reviews/issues/936/assignees" {
		t.Fatalf("path = %q, want the assignees route", got.URL.Path)
	}
	if got.Header.Get("Authorization") != "Bearer token123" {
		t.Fatalf("authorization = %q, want bearer token", got.Header.Get("Authorization"))
	}
	if !reflect.DeepEqual(payload["assignees"], []string{"edith", "maelle"}) {
		t.Fatalf("assignees = %v, want [edith maelle]", payload["assignees"])
	}
}

func TestReplaceAssigneesFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(context.Background(), "token123")
	c.baseURL = srv.URL

	if err := c.ReplaceAssignees(context.Background(), "openjournals/joss-reviews", 936, nil); err == nil {
		t.Fatal("ReplaceAssignees() error = nil, want status failure")
	}
}
