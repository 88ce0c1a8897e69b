package help

import (
	"fmt"

	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
)

// ValidationError reports malformed input on a single field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a help request id that does not exist
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("help request %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrHelpRequestNotFound
}

// InvalidTransitionError reports a status change the status model does not allow
type InvalidTransitionError struct {
	ID   string
	From schema.HelpStatus
	To   schema.HelpStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("help request %s cannot move from %s to %s", e.ID, e.From, e.To)
}

// ForbiddenError reports an action the caller is not allowed to take on a request
type ForbiddenError struct {
	ID     string
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to %s help request %s", e.Action, e.ID)
}
