package state

// Lifecycle represents the lifecycle of the scene stack
type Lifecycle int

const (
	// Created: constructed with its initial scene, not yet started
	Created Lifecycle = iota
	// Running: initialized, callbacks are delivered to the top scene
	Running
	// Stopped: every scene was stopped; permanent
	Stopped
)

// String returns the string representation of the lifecycle state
func (s Lifecycle) String() string {
	switch s {
	case Created:
		return "Created"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether the stack may move from s to next
func (s Lifecycle) CanTransition(next Lifecycle) bool {
	switch s {
	case Created:
		return next == Running
	case Running:
		return next == Stopped
	default:
		return false
	}
}
