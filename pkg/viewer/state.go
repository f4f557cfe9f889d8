package viewer

import "fmt"

// State is the lifecycle stage of the current query.
type State int

const (
	// Idle means no query has been submitted.
	Idle State = iota
	// Loading means a query is in flight.
	Loading
	// Ready means the last query completed and its data is available.
	Ready
	// Failed means the last query ended with an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Idle, Loading, Ready, Failed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}
