package server

// SessionState is the lifecycle state of a session
type SessionState int32

const (
	StateConnecting SessionState = iota // dialing the pricer
	StateActive                         // relaying in both directions
	StateClosing                        // one side is gone, the other is being torn down
	StateClosed                         // both sides are released
)

// String returns the string representation of a SessionState.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
