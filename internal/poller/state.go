package poller

import "encoding/json"

// State is the update loop lifecycle
type State int

// Loop states
const (
	StateStopped  State = iota // Initial and terminal
	StateRunning               // Fetching and dispatching
	StateDraining              // Stop requested; exits before the next fetch
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	}
	return "unknown"
}

// MarshalJSON renders the state by name
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
