package dispatch

import (
	"context"
	"fmt"
	"regexp"

	"github.com/vtjnash/whedon-api/internal/domain/review"
)

// role is the authorization a command-table entry demands before its
// handler may run.
type role int

const (
	roleAny role = iota
	roleEditor
	roleEiC
)

type route struct {
	re      *regexp.Regexp
	role    role
	handler func(s *Service, ctx context.Context, req *request, args []string) error
}

// buildRoutes compiles the command grammar against the bot's mention
// handle. Order matters: forms that extend a shorter form come first, so
// "generate pdf from branch x" wins over the bare "generate pdf". First
// match takes the delivery; nothing matches, nothing happens.
func buildRoutes(handle string) []route {
	mk := func(pattern string) *regexp.Regexp {
		return regexp.MustCompile(`(?i)\A@` + regexp.QuoteMeta(handle) + ` ` + pattern)
	}

	return []route{
		{re: mk(`commands`), role: roleAny, handler: (*Service).listCommands},
		{re: mk(`assign (.*) as reviewer`), role: roleEditor, handler: (*Service).assignReviewer},
		{re: mk(`add (.*) as reviewer`), role: roleEditor, handler: (*Service).addReviewer},
		{re: mk(`remove (.*) as reviewer`), role: roleEditor, handler: (*Service).removeReviewer},
		{re: mk(`assign (.*) as editor`), role: roleEditor, handler: (*Service).assignEditor},
		{re: mk(`set (.*) as archive`), role: roleEditor, handler: (*Service).setArchive},
		{re: mk(`set (.*) as version`), role: roleEditor, handler: (*Service).setVersion},
		// start review authorizes inside the handler: the already-started
		// reply must not depend on the sender's role.
		{re: mk(`start review`), role: roleAny, handler: (*Service).startReview},
		{re: mk(`list editors`), role: roleAny, handler: (*Service).listEditors},
		{re: mk(`list reviewers`), role: roleAny, handler: (*Service).listReviewers},
		{re: mk(`generate pdf from branch (.*)`), role: roleAny, handler: (*Service).generatePDFFromBranch},
		{re: mk(`generate pdf`), role: roleAny, handler: (*Service).generatePDF},
		{re: mk(`accept deposit=true`), role: roleEiC, handler: (*Service).acceptLive},
		{re: mk(`accept`), role: roleEditor, handler: (*Service).acceptDryRun},
		{re: mk(`check references from branch (.*)`), role: roleAny, handler: (*Service).checkReferencesFromBranch},
		{re: mk(`check references`), role: roleAny, handler: (*Service).checkReferences},
		{re: mk(`remind (.*) in (.*) (.*)`), role: roleEditor, handler: (*Service).remind},
	}
}

// authorize enforces a route's declared role before its handler runs.
// The role check itself is a pure roster predicate on the journal; this
// wrapper owns posting the rejection and signalling the forbidden
// outcome, and no handler code runs after a failed check.
func (s *Service) authorize(ctx context.Context, req *request, required role) error {
	switch required {
	case roleEditor:
		return s.requireEditor(ctx, req)
	case roleEiC:
		return s.requireEiC(ctx, req)
	}
	return nil
}

func (s *Service) requireEditor(ctx context.Context, req *request) error {
	if req.journal.IsEditor(req.ev.Sender) {
		return nil
	}
	msg := fmt.Sprintf("I'm sorry @%s, I'm afraid I can't do that. That's something only editors are allowed to do.", req.ev.Sender)
	if err := s.respond(ctx, req, msg); err != nil {
		return err
	}
	return &review.NotAuthorizedError{Sender: req.ev.Sender, Role: "editors"}
}

func (s *Service) requireEiC(ctx context.Context, req *request) error {
	if req.journal.IsEIC(req.ev.Sender) {
		return nil
	}
	msg := fmt.Sprintf("I'm sorry @%s, I'm afraid I can't do that. That's something only editor-in-chiefs are allowed to do.", req.ev.Sender)
	if err := s.respond(ctx, req, msg); err != nil {
		return err
	}
	return &review.NotAuthorizedError{Sender: req.ev.Sender, Role: "editor-in-chiefs"}
}

func (s *Service) listCommands(ctx context.Context, req *request, _ []string) error {
	name := "commands_public"
	if req.journal.IsEditor(req.ev.Sender) {
		name = "commands"
	}
	return s.respondTemplate(ctx, req, name, map[string]any{"Handle": s.handle})
}

func (s *Service) listEditors(ctx context.Context, req *request, _ []string) error {
	return s.respondTemplate(ctx, req, "editors", map[string]any{"Editors": req.journal.Editors})
}

func (s *Service) listReviewers(ctx context.Context, req *request, _ []string) error {
	return s.respond(ctx, req, fmt.Sprintf("Here's the current list of reviewers: %s", req.journal.ReviewersList))
}
