package connection

import "github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"

// Lifecycle is the manager's view of transport availability.
type Lifecycle int

const (
	Disconnected Lifecycle = iota
	Connecting
	Connected
	Disposed
)

// String returns the string representation of the lifecycle state.
func (l Lifecycle) String() string {
	switch l {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

var lifecycleNames = []string{
	Disconnected.String(),
	Connecting.String(),
	Connected.String(),
}

// State is an immutable snapshot of what the manager publishes.
type State struct {
	Lifecycle  Lifecycle
	Connected  bool
	Processing bool
	// Response is replaced wholesale on every response frame; nil until the
	// first one arrives or after ResetResponse.
	Response *protocol.AIResponse
	// Err is the last surfaced error, empty when there is none.
	Err string
}

// HasError reports whether an error is currently surfaced.
func (s State) HasError() bool {
	return s.Err != ""
}
