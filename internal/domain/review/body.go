// Package review holds the webhook event model and the textual state
// codec for review issues. The issue body is the source of truth: state
// lives in labeled lines ("**Editor:** @login", "**Reviewers:** a, b",
// "**Archive:** <a href=...>", "**Version:** v1.2.3") that are rewritten
// in place and never duplicated or invented.
package review

import (
	"regexp"
	"strings"
)

// Kind is the issue's lifecycle stage, derived solely from its title.
type Kind int

const (
	KindPreReview Kind = iota
	KindReview
)

var reviewTitleRe = regexp.MustCompile(`^\[REVIEW\]:`)

// TitleKind reports whether a title denotes a review issue or the
// pre-review discussion that precedes it.
func TitleKind(title string) Kind {
	if reviewTitleRe.MatchString(title) {
		return KindReview
	}
	return KindPreReview
}

// Field names a labeled metadata line in an issue body.
type Field int

const (
	FieldEditor Field = iota
	FieldReviewers
	FieldArchive
	FieldVersion
)

// marker pairs the pattern locating a labeled line with the rendering of
// its replacement. The reviewer line keeps its trailing CRLF because the
// value pattern is newline-delimited.
type marker struct {
	line   *regexp.Regexp
	render func(value string) string
}

var markers = map[Field]marker{
	FieldEditor: {
		line:   regexp.MustCompile(`(?i)\*\*Editor:\*\*\s*(@\S*|Pending)`),
		render: func(v string) string { return "**Editor:** " + v },
	},
	FieldReviewers: {
		line:   regexp.MustCompile(`(?i)\*\*Reviewers?:\*\*\s*(.+?)\r?\n`),
		render: func(v string) string { return "**Reviewers:** " + v + "\r\n" },
	},
	FieldArchive: {
		line:   regexp.MustCompile(`(?i)\*\*Archive:\*\*\s*(.*)`),
		render: func(v string) string { return "**Archive:** " + v },
	},
	FieldVersion: {
		line:   regexp.MustCompile(`(?i)\*\*Version:\*\*\s*(.*)`),
		render: func(v string) string { return "**Version:** " + v },
	},
}

// SetField rewrites the labeled line in place, label preserved, value
// replaced. An absent marker leaves the body untouched: the codec never
// invents metadata sections. Repeated writes replace, never duplicate.
func SetField(body string, field Field, value string) string {
	m, ok := markers[field]
	if !ok {
		return body
	}
	return m.line.ReplaceAllLiteralString(body, m.render(value))
}

var (
	editorRe    = regexp.MustCompile(`(?i)\*\*Editor:\*\*\s*@(\S+)`)
	reviewersRe = regexp.MustCompile(`(?i)Reviewers?:\*\*\s*(.+?)\r?\n`)
	archiveRe   = regexp.MustCompile(`(?i)\*\*Archive:\*\*\s*<a\s+href="([^"]+)"`)
)

// Editor extracts the assigned editor's login, without the @.
func Editor(body string) (string, error) {
	m := editorRe.FindStringSubmatch(body)
	if m == nil {
		return "", ErrMissingEditor
	}
	return m[1], nil
}

// Reviewers extracts the reviewer list as written. A literal "Pending"
// entry means nobody is assigned yet and is dropped.
func Reviewers(body string) []string {
	m := reviewersRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}

	out := make([]string, 0, 4)
	for _, name := range strings.Split(m[1], ", ") {
		if name == "" || name == "Pending" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// ArchiveDOI extracts the archive link if one has been set.
func ArchiveDOI(body string) (string, bool) {
	m := archiveRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var doiRe = regexp.MustCompile(`\b(10\.[0-9]{4,}(?:\.[0-9]+)*/[^\s"&'<>]+)\b`)

// ExtractDOI pulls a DOI out of free text, or "" when nothing in the
// text has the 10.xxxx/suffix shape.
func ExtractDOI(s string) string {
	m := doiRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
