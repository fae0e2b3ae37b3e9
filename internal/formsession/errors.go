package formsession

import "errors"

var (
	// ErrSessionSubmitted rejects any save or submit after the session
	// reached its terminal state. Re-editing a submitted evaluation is
	// never silently accepted.
	ErrSessionSubmitted = errors.New("evaluation already submitted in this session")
	ErrNotReady         = errors.New("session is not ready")
)

// GateError reports which submission precondition failed. No network call
// happens when submission is gated.
type GateError struct {
	Reason string
}

func (e *GateError) Error() string {
	return "cannot submit: " + e.Reason
}
