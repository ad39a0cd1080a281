package llm

import "github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"

// Kind selects a prompt template and the expected document shape.
type Kind string

const (
	KindFlowchart Kind = "flowchart"
	KindProcess   Kind = "process"
	KindMindMap   Kind = "mindmap"
	KindGeneral   Kind = "general"
)

// KindForMode maps a request mode to a diagram kind. Unknown modes use the
// general prompt.
func KindForMode(mode string) Kind {
	switch protocol.NormalizeMode(mode) {
	case protocol.ModeFlowchart:
		return KindFlowchart
	case protocol.ModeProcess:
		return KindProcess
	case protocol.ModeMindMap:
		return KindMindMap
	default:
		return KindGeneral
	}
}

// Structured reports whether the kind's prompt asks for a JSON document.
func (k Kind) Structured() bool {
	switch k {
	case KindFlowchart, KindProcess, KindMindMap:
		return true
	default:
		return false
	}
}

func (k Kind) String() string { return string(k) }
