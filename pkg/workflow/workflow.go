package workflow

import "fmt"

// Status represents the lifecycle state of an edit workflow session
type Status string

const (
	StatusActive          Status = "active"
	StatusEditing         Status = "editing"
	StatusPendingApproval Status = "pending_approval"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// SessionType represents the kind of workflow a session tracks
type SessionType string

const (
	TypeQuery      SessionType = "query"
	TypeCreateNote SessionType = "create_note"
	TypeEditNote   SessionType = "edit_note"
	TypeAppendNote SessionType = "append_note"
)

// transitions is the single source of truth for legal status moves.
// Forward path: active -> editing -> pending_approval -> completed.
// Cancellation is reachable from every non-terminal state.
var transitions = map[Status][]Status{
	StatusActive:          {StatusEditing, StatusCancelled},
	StatusEditing:         {StatusPendingApproval, StatusCancelled},
	StatusPendingApproval: {StatusCompleted, StatusCancelled},
	StatusCompleted:       {},
	StatusCancelled:       {},
}

// InvalidTransitionError reports an illegal status move.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid session transition: %s -> %s", e.From, e.To)
}

// UnknownStatusError reports a status value outside the enum.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown session status: %q", e.Status)
}

// ValidateTransition checks whether moving from one status to another is legal.
func ValidateTransition(from, to Status) error {
	allowed, ok := transitions[from]
	if !ok {
		return &UnknownStatusError{Status: from}
	}
	if _, ok := transitions[to]; !ok {
		return &UnknownStatusError{Status: to}
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// IsTerminal reports whether a status accepts no further transitions.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// ValidSessionType reports whether t is a member of the session type enum.
func ValidSessionType(t SessionType) bool {
	switch t {
	case TypeQuery, TypeCreateNote, TypeEditNote, TypeAppendNote:
		return true
	}
	return false
}
