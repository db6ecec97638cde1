package trace

// State is the lifecycle state of a Parser.
type State int

const (
	// StateUninitialized is the state before a successful Setup.
	StateUninitialized State = iota
	// StateReady accepts Next calls.
	StateReady
	// StateExhausted has returned io.EOF and will keep doing so.
	StateExhausted
	// StateDisposed is terminal and reachable from every other state.
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateExhausted:
		return "exhausted"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
