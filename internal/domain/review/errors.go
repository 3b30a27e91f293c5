package review

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks deliveries without an issue object. They
	// are rejected silently; cross-posted hooks are noise, not commands.
	ErrMalformedPayload = errors.New("payload has no issue")

	// ErrUnknownRepository marks deliveries for repositories with no
	// journal configuration. Also rejected silently.
	ErrUnknownRepository = errors.New("no journal configured for repository")

	ErrMissingEditor     = errors.New("issue body has no editor assigned")
	ErrMissingAssignment = errors.New("review needs an editor and at least one reviewer")
	ErrAlreadyStarted    = errors.New("review has already started")
	ErrUnparsableTime    = errors.New("unrecognized time expression")
)

// NotAuthorizedError reports a failed role check. Role names the roster
// the sender was checked against: "editors" or "editor-in-chiefs".
type NotAuthorizedError struct {
	Sender string
	Role   string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("@%s is not one of the %s", e.Sender, e.Role)
}
