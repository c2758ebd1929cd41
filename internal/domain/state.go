package domain

// Lifecycle of one optimization request. Complete and Failed are terminal.
type RequestState int

const (
	StateIdle RequestState = iota
	StateBuilding
	StateAwaitingProvider
	StateReconciling
	StateComplete
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateAwaitingProvider:
		return "awaiting_provider"
	case StateReconciling:
		return "reconciling"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s RequestState) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// CanTransition reports whether next may follow s.
// Failed is reachable from every non-terminal state after Idle.
func (s RequestState) CanTransition(next RequestState) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return s != StateIdle
	}
	return next == s+1
}
