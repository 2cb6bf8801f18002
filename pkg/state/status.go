package state

// Status represents the lifecycle of an asynchronous operation.
// Every controller-owned request moves idle → loading → succeeded/failed.
type Status int

const (
	// Idle is the initial state before any request has been issued.
	Idle Status = iota

	// Loading indicates a request is in flight.
	Loading

	// Succeeded indicates the last request completed successfully.
	Succeeded

	// Failed indicates the last request failed. The originating
	// controller retains the error message until explicitly cleared.
	Failed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Settled reports whether the status is a terminal resolution state.
func (s Status) Settled() bool {
	return s == Succeeded || s == Failed
}
