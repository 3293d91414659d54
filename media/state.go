package media

import "fmt"

// State is the playback phase last reported by the native side. The numeric values are part of the native contract.
type State int

const (
	// StateUnknown is held by handles that have not received a state notification yet.
	StateUnknown  State = -1
	StateNone     State = 0
	StateStarting State = 1
	StateRunning  State = 2
	StatePaused   State = 3
	StateStopped  State = 4
)

var stateNames = [...]string{"None", "Starting", "Running", "Paused", "Stopped"}

func (s State) String() string {
	if s >= StateNone && int(s) < len(stateNames) {
		return stateNames[s]
	}
	if s == StateUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MessageKind discriminates notifications pushed by the native side.
type MessageKind int

const (
	KindState    MessageKind = 1
	KindDuration MessageKind = 2
	KindPosition MessageKind = 3
	KindError    MessageKind = 9
)

func (k MessageKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindDuration:
		return "duration"
	case KindPosition:
		return "position"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unknown is the cached duration or position of a handle before the native side reports one.
// Active recordings keep it, since they have no duration.
const Unknown = -1.0
