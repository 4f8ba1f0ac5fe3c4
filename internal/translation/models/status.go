package models

import (
	dErrors "docflow/pkg/domain-errors"
)

// Status is the workflow position of a translation document. It is the single
// source of truth for which transitions are legal.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusTranslated       Status = "TRANSLATED"
	StatusUserConfirmed    Status = "USER_CONFIRMED"
	StatusChangesRequested Status = "CHANGES_REQUESTED"
	StatusVerified         Status = "VERIFIED"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []Status{
	StatusPending,
	StatusTranslated,
	StatusUserConfirmed,
	StatusChangesRequested,
	StatusVerified,
}

// transitions is the legal graph. The only cycle is
// TRANSLATED -> CHANGES_REQUESTED -> TRANSLATED.
var transitions = map[Status][]Status{
	StatusPending:          {StatusTranslated},
	StatusTranslated:       {StatusUserConfirmed, StatusChangesRequested},
	StatusChangesRequested: {StatusTranslated},
	StatusUserConfirmed:    {StatusVerified},
	StatusVerified:         nil,
}

// ParseStatus validates a status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid status %q", s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the workflow graph.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
