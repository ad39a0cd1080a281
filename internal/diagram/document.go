package diagram

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

var codec = sonic.ConfigStd

// NodeID accepts both string and numeric ids since models emit either.
type NodeID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*id = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := codec.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(strings.TrimSpace(s))
	case raw != "" && strings.ContainsRune("-0123456789", rune(raw[0])):
		*id = NodeID(raw)
	default:
		return fmt.Errorf("node id must be a string or number, got %s", raw)
	}
	return nil
}

// FlowNode is one flowchart node or process step.
type FlowNode struct {
	ID   NodeID `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// Connection links two nodes by id.
type Connection struct {
	From  NodeID `json:"from"`
	To    NodeID `json:"to"`
	Label string `json:"label"`
}

// FlowchartDoc is the document requested by the flowchart prompt.
type FlowchartDoc struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Nodes       []FlowNode   `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// ProcessPhase groups process steps.
type ProcessPhase struct {
	Name  string     `json:"name"`
	Steps []FlowNode `json:"steps"`
}

// ProcessDoc is the document requested by the process prompt. Models
// sometimes answer with flowchart nodes instead of phases; both are used.
type ProcessDoc struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Phases      []ProcessPhase `json:"phases"`
	Nodes       []FlowNode     `json:"nodes"`
	Connections []Connection   `json:"connections"`
}

// Flatten turns phases into a flowchart document. Without explicit
// connections the steps are chained in order.
func (d ProcessDoc) Flatten() FlowchartDoc {
	flat := FlowchartDoc{
		Title:       d.Title,
		Description: d.Description,
		Connections: d.Connections,
	}
	for _, phase := range d.Phases {
		flat.Nodes = append(flat.Nodes, phase.Steps...)
	}
	flat.Nodes = append(flat.Nodes, d.Nodes...)

	if len(flat.Connections) == 0 {
		for i := 1; i < len(flat.Nodes); i++ {
			from, to := flat.Nodes[i-1].ID, flat.Nodes[i].ID
			if from != "" && to != "" {
				flat.Connections = append(flat.Connections, Connection{From: from, To: to})
			}
		}
	}
	return flat
}

// MindNode is the central node, a branch or a sub-topic.
type MindNode struct {
	ID    NodeID     `json:"id"`
	Text  string     `json:"text"`
	Color string     `json:"color"`
	Nodes []MindNode `json:"nodes"`
}

// MindMapDoc is the document requested by the mind map prompt.
type MindMapDoc struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CentralNode *MindNode    `json:"centralNode"`
	Branches    []MindNode   `json:"branches"`
	Connections []Connection `json:"connections"`
}

func decode[T any](data []byte) (T, error) {
	var doc T
	if err := codec.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
