package dispatch

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/vtjnash/whedon-api/internal/ports"
)

func TestAssignEditor(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})

	if err := f.svc.Dispatch(context.Background(), reviewCommentEvent("edith", "@whedon assign @emil as editor")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	up := f.platform.updates[0]
	if !strings.Contains(up.body, "**Editor:** @emil") {
		t.Fatalf("body = %q, want rewritten editor line", up.body)
	}
	if up.assignees == nil || len(*up.assignees) != 0 {
		t.Fatalf("assignees = %v, want explicit clear", up.assignees)
	}

	if len(f.site.assignCalls) != 1 {
		t.Fatalf("site assign calls = %d, want 1", len(f.site.assignCalls))
	}
	call := f.site.assignCalls[0]
	if call.host != "https://joss.theoj.org" || call.secret != "sekrit" || call.editor != "emil" || call.issueNumber != 936 {
		t.Fatalf("site call = %+v, want host/secret/editor/issue forwarded", call)
	}

	if !reflect.DeepEqual(f.platform.assignees[0], []string{"emil", "Maelle", "jgosmann"}) {
		t.Fatalf("assignees = %v, want new editor plus reviewers", f.platform.assignees[0])
	}

	want := "OK, the editor is @emil"
	if f.platform.comments[len(f.platform.comments)-1] != want {
		t.Fatalf("comment = %q, want %q", f.platform.comments[len(f.platform.comments)-1], want)
	}
}

func TestAssignEditorSkipsJoseSite(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})
	f.journal.SiteHost = "https://jose.theoj.org"

	if err := f.svc.Dispatch(context.Background(), reviewCommentEvent("edith", "@whedon assign @emil as editor")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(f.site.assignCalls) != 0 {
		t.Fatalf("site assign calls = %d, want 0 for JOSE", len(f.site.assignCalls))
	}
}

func TestSetArchive(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})

	if err := f.svc.Dispatch(context.Background(), reviewCommentEvent("edith", "@whedon set 10.5281/zenodo.1234 as archive")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	wantLink := `<a href="https://doi.org/10.5281/zenodo.1234" target="_blank">10.5281/zenodo.1234</a>`
	up := f.platform.updates[0]
	if !strings.Contains(up.body, "**Archive:** "+wantLink) {
		t.Fatalf("body = %q, want archive anchor", up.body)
	}
	if up.assignees != nil {
		t.Fatalf("assignees = %v, want untouched", up.assignees)
	}

	want := "OK. " + wantLink + " is the archive."
	if f.platform.comments[0] != want {
		t.Fatalf("comment = %q, want %q", f.platform.comments[0], want)
	}
}

func TestSetArchiveRejectsNonDOI(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})

	if err := f.svc.Dispatch(context.Background(), reviewCommentEvent("edith", "@whedon set horses as archive")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(f.platform.updates) != 0 {
		t.Fatalf("updates = %v, want none for a bad DOI", f.platform.updates)
	}
	want := "horses doesn't look like an archive DOI."
	if f.platform.comments[0] != want {
		t.Fatalf("comment = %q, want %q", f.platform.comments[0], want)
	}
}

func TestSetVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})

	if err := f.svc.Dispatch(context.Background(), reviewCommentEvent("edith", "@whedon set v2.0.1 as version")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	up := f.platform.updates[0]
	if !strings.Contains(up.body, "**Version:** v2.0.1") {
		t.Fatalf("body = %q, want rewritten version line", up.body)
	}
	want := "OK. v2.0.1 is the version."
	if f.platform.comments[0] != want {
		t.Fatalf("comment = %q, want %q", f.platform.comments[0], want)
	}
}
