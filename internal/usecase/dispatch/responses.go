package dispatch

import (
	"bytes"
	"context"
	"embed"
	"text/template"

	"github.com/vtjnash/whedon-api/internal/errs"
)

// How the bot talks: canned replies live as templates, one file per
// message, like the responses directory they replace.
//
//go:embed responses/*.tmpl
var responsesFS embed.FS

var responses = template.Must(template.ParseFS(responsesFS, "responses/*.tmpl"))

func (s *Service) respondTemplate(ctx context.Context, req *request, name string, data any) error {
	var buf bytes.Buffer
	if err := responses.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return errs.Wrapf(err, "render %s response", name)
	}
	return s.respond(ctx, req, buf.String())
}
