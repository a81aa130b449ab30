package app

// State is the lifecycle stage of an App.
type State int

const (
	// StateUninitialized is the state before Start.
	StateUninitialized State = iota
	// StateAwaitingImageLoad waits for the portrait to arrive.
	StateAwaitingImageLoad
	// StateReady has both seeds uploaded and the simulation initialized.
	StateReady
	// StateRunning simulates and renders once per frame.
	StateRunning
	// StateFailed is terminal. Err holds the cause.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingImageLoad:
		return "awaiting_image_load"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
