package app

// State is the session lifecycle state. The only automatic edge is
// Closed -> Connecting, taken by the reconnect timer and never by an
// explicit user-initiated close.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Status is the user-facing indicator derived from the state.
func (s State) Status() string {
	if s == StateOpen {
		return "Connected"
	}
	return "Disconnected"
}
