package help

import (
	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
)

// Me is the user id alias for the calling principal
const Me = "me"

// Filter is the caller supplied listing criteria. Every field is optional.
type Filter struct {
	UserID           string
	ZipCodes         []string
	Statuses         []string
	IncludeRequester bool
}

// query resolves the `me` alias and status names into a store query
func (f Filter) query(principal string) (store.HelpRequestQuery, error) {
	q := store.HelpRequestQuery{
		RequesterID: f.UserID,
		ZipCodes:    nonEmpty(f.ZipCodes),
	}

	if f.UserID == Me {
		q.RequesterID = principal
	}

	for _, name := range nonEmpty(f.Statuses) {
		status, err := schema.ParseHelpStatus(name)
		if err != nil {
			return store.HelpRequestQuery{}, &ValidationError{Field: "status", Reason: err.Error()}
		}
		q.Statuses = append(q.Statuses, status)
	}

	return q, nil
}

func nonEmpty(values []string) []string {
	var result []string
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
