package enums

import "fmt"

// SessionState tracks the lifecycle of a design session.
type SessionState string

const (
	SessionStateEmpty     SessionState = "empty"
	SessionStateDesigning SessionState = "designing"
	SessionStateReviewing SessionState = "reviewing"
	SessionStateSubmitted SessionState = "submitted"
	SessionStateCancelled SessionState = "cancelled"
)

var validSessionStates = []SessionState{
	SessionStateEmpty,
	SessionStateDesigning,
	SessionStateReviewing,
	SessionStateSubmitted,
	SessionStateCancelled,
}

var sessionTransitions = map[SessionState][]SessionState{
	SessionStateEmpty:     {SessionStateDesigning, SessionStateCancelled},
	SessionStateDesigning: {SessionStateReviewing, SessionStateCancelled},
	SessionStateReviewing: {SessionStateDesigning, SessionStateSubmitted, SessionStateCancelled},
}

// String implements fmt.Stringer.
func (s SessionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionState.
func (s SessionState) IsValid() bool {
	for _, candidate := range validSessionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s SessionState) IsTerminal() bool {
	return s == SessionStateSubmitted || s == SessionStateCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, candidate := range sessionTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseSessionState converts raw input into a SessionState.
func ParseSessionState(value string) (SessionState, error) {
	for _, candidate := range validSessionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session state %q", value)
}
