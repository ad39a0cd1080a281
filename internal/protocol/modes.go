package protocol

import "strings"

// Generation modes understood by the backend.
const (
	ModeFlowchart = "text_to_flowchart"
	ModeProcess   = "process_diagram"
	ModeMindMap   = "mind_map"

	// DefaultMode is used when a caller does not pick a mode.
	DefaultMode = ModeFlowchart
)

// Modes lists the modes with a dedicated diagram generator.
func Modes() []string {
	return []string{ModeFlowchart, ModeProcess, ModeMindMap}
}

// NormalizeMode trims the mode and falls back to DefaultMode when blank.
func NormalizeMode(mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return DefaultMode
	}
	return mode
}

// IsKnownMode reports whether mode has a dedicated generator. Unknown modes
// are still accepted by the backend and rendered with the general prompt.
func IsKnownMode(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}
	return false
}
