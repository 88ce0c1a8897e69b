package schema

import (
	"fmt"
	"strings"
)

// HelpStatus is the lifecycle state of a help request
type HelpStatus string

const (
	HelpPending   HelpStatus = "PENDING"
	HelpAccepted  HelpStatus = "ACCEPTED"
	HelpShopping  HelpStatus = "SHOPPING"
	HelpDelivered HelpStatus = "DELIVERED"
	HelpDone      HelpStatus = "DONE"
	HelpCancelled HelpStatus = "CANCELLED"
)

// InitialHelpStatus is the state every new help request starts in
const InitialHelpStatus = HelpPending

var helpTransitions = map[HelpStatus][]HelpStatus{
	HelpPending:   {HelpAccepted, HelpCancelled},
	HelpAccepted:  {HelpShopping, HelpCancelled},
	HelpShopping:  {HelpDelivered, HelpCancelled},
	HelpDelivered: {HelpDone, HelpCancelled},
	HelpDone:      {},
	HelpCancelled: {},
}

// HelpStatuses lists all known statuses in workflow order
func HelpStatuses() []HelpStatus {
	return []HelpStatus{HelpPending, HelpAccepted, HelpShopping, HelpDelivered, HelpDone, HelpCancelled}
}

// ParseHelpStatus converts a case-insensitive status name into a HelpStatus
func ParseHelpStatus(s string) (HelpStatus, error) {
	status := HelpStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown help request status %q", s)
	}
	return status, nil
}

// Valid reports whether s is a member of the status set
func (s HelpStatus) Valid() bool {
	_, ok := helpTransitions[s]
	return ok
}

// Terminal reports whether no transition may leave s
func (s HelpStatus) Terminal() bool {
	next, ok := helpTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether moving a request from `from` to `to` is a legal edge.
func CanTransition(from, to HelpStatus) bool {
	for _, s := range helpTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
