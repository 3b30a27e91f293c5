package review

import "encoding/json"

// Actions delivered by the issues webhook that this system reacts to.
const (
	ActionOpened  = "opened"
	ActionClosed  = "closed"
	ActionCreated = "created"
)

// Event is the typed view of one webhook delivery. It lives for the
// duration of a single request and is never persisted.
type Event struct {
	Action      string
	Repository  string
	IssueNumber int
	IssueTitle  string
	Sender      string

	// Message is the text commands are parsed from: the issue body for
	// opened/closed, the comment body for created.
	Message string
}

// ParseEvent classifies a raw webhook payload. Payloads without an
// "issue" object fail with ErrMalformedPayload; everything the platform
// sends for non-issue hooks lands in that bucket. Actions other than
// opened/closed/created produce an event with an empty message, which
// downstream dispatch ignores.
func ParseEvent(payload []byte) (Event, error) {
	var raw struct {
		Action string `json:"action"`
		Issue  *struct {
			Number int    `json:"number"`
			Title  string `json:"title"`
			Body   string `json:"body"`
		} `json:"issue"`
		Comment *struct {
			Body string `json:"body"`
		} `json:"comment"`
		Sender struct {
			Login string `json:"login"`
		} `json:"sender"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, ErrMalformedPayload
	}
	if raw.Issue == nil {
		return Event{}, ErrMalformedPayload
	}

	ev := Event{
		Action:      raw.Action,
		Repository:  raw.Repository.FullName,
		IssueNumber: raw.Issue.Number,
		IssueTitle:  raw.Issue.Title,
		Sender:      raw.Sender.Login,
	}

	switch raw.Action {
	case ActionOpened, ActionClosed:
		ev.Message = raw.Issue.Body
	case ActionCreated:
		if raw.Comment != nil {
			ev.Message = raw.Comment.Body
		}
	}

	return ev, nil
}
