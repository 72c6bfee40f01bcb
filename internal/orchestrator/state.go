package orchestrator

import "errors"

// State is the attempt's position in the mint flow. Transitions only happen
// through Attempt methods, so illegal combinations are unrepresentable.
type State string

const (
	StateIdle              State = "idle"
	StateChoosingMethod    State = "choosing_method"
	StateUploadingMetadata State = "uploading_metadata"
	StateSubmitting        State = "submitting_transaction"
	StateSucceeded         State = "success"
	StateFailed            State = "failed"
)

// ErrInvalidTransition is returned when a method is called in a state it is
// not defined for, e.g. Confirm before Open.
var ErrInvalidTransition = errors.New("invalid state transition")

// Terminal reports whether the attempt has reached an end state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// postChoice reports whether s comes after choosing_method in the flow,
// i.e. whether Back may return to the method choice from here.
func (s State) postChoice() bool {
	switch s {
	case StateUploadingMetadata, StateSubmitting, StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}
