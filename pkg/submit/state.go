package submit

// State identifies where a submission attempt is in its lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateSubmitting
	StateSucceeded
	StateFailed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
