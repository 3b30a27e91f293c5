package dispatch

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vtjnash/whedon-api/internal/domain/review"
	"github.com/vtjnash/whedon-api/internal/ports"
)

func TestStartReview(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[PRE REVIEW]: Widget", Body: reviewBody})
	f.site.reviewID = 937

	if err := f.svc.Dispatch(context.Background(), commentEvent("edith", "@whedon start review")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(f.site.startCalls) != 1 {
		t.Fatalf("site start calls = %d, want 1", len(f.site.startCalls))
	}
	call := f.site.startCalls[0]
	if call.editor != "edith" {
		t.Fatalf("editor = %q, want edith", call.editor)
	}
	if !reflect.DeepEqual(call.reviewers, []string{"Maelle", "jgosmann"}) {
		t.Fatalf("reviewers = %v, want logins without the @", call.reviewers)
	}

	want := "OK, I've started the review over in https://github.com/openjournals/joss-reviews/issues/937. Feel free to close this issue now!"
	if f.platform.comments[len(f.platform.comments)-1] != want {
		t.Fatalf("comment = %q, want %q", f.platform.comments[len(f.platform.comments)-1], want)
	}
}

func TestStartReviewAlreadyStarted(t *testing.T) {
	t.Parallel()

	// The refusal is the same for any sender, rostered or not.
	for _, sender := range []string{"edith", "author"} {
		f := newFixture(ports.Issue{Title: "[REVIEW]: Widget", Body: reviewBody})

		err := f.svc.Dispatch(context.Background(), reviewCommentEvent(sender, "@whedon start review"))
		if !errors.Is(err, review.ErrAlreadyStarted) {
			t.Fatalf("Dispatch() error = %v, want ErrAlreadyStarted (sender %s)", err, sender)
		}

		want := "Can't start a review when the review has already started"
		if len(f.platform.comments) != 1 || f.platform.comments[0] != want {
			t.Fatalf("comments = %v, want [%q]", f.platform.comments, want)
		}
		if len(f.site.startCalls) != 0 {
			t.Fatalf("site start calls = %d, want 0", len(f.site.startCalls))
		}
	}
}

func TestStartReviewRequiresEditor(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[PRE REVIEW]: Widget", Body: reviewBody})

	err := f.svc.Dispatch(context.Background(), commentEvent("author", "@whedon start review"))
	var notAuthorized *review.NotAuthorizedError
	if !errors.As(err, &notAuthorized) {
		t.Fatalf("Dispatch() error = %v, want NotAuthorizedError", err)
	}
	if len(f.site.startCalls) != 0 {
		t.Fatalf("site start calls = %d, want 0", len(f.site.startCalls))
	}
}

func TestStartReviewMissingAssignment(t *testing.T) {
	t.Parallel()

	f := newFixture(ports.Issue{Title: "[PRE REVIEW]: Widget", Body: preReviewBody})

	err := f.svc.Dispatch(context.Background(), commentEvent("edith", "@whedon start review"))
	if !errors.Is(err, review.ErrMissingAssignment) {
		t.Fatalf("Dispatch() error = %v, want ErrMissingAssignment", err)
	}
	if len(f.platform.comments) != 1 {
		t.Fatalf("comments = %d, want the explanation", len(f.platform.comments))
	}
	if len(f.site.startCalls) != 0 {
		t.Fatalf("site start calls = %d, want 0", len(f.site.startCalls))
	}
}
