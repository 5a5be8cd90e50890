package relay

// State is the connection state of a Relay.
//
//	Disconnected --dial--> Connecting --ok--> Connected
//	     ^                     |                  |
//	     +------ failure ------+---- close/err ---+
//
// Any state moves to Stopped when the Run context is cancelled.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// validTransition reports whether the relay may move from one state to
// another.
func validTransition(from, to State) bool {
	if to == StateStopped {
		return true
	}
	switch from {
	case StateDisconnected:
		return to == StateConnecting
	case StateConnecting:
		return to == StateConnected || to == StateDisconnected
	case StateConnected:
		return to == StateDisconnected
	case StateStopped:
		// Run may be called again after it returned.
		return to == StateConnecting
	}
	return false
}
