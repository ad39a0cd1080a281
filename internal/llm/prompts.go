package llm

import (
	"bytes"
	"fmt"
	"text/template"
)

var prompts = map[Kind]*template.Template{
	KindFlowchart: template.Must(template.New("flowchart").Parse(flowchartPrompt)),
	KindProcess:   template.Must(template.New("process").Parse(processPrompt)),
	KindMindMap:   template.Must(template.New("mindmap").Parse(mindMapPrompt)),
}

// BuildPrompt renders the template for kind around the user's request. The
// general kind sends the request unchanged.
func BuildPrompt(kind Kind, request string) (string, error) {
	tmpl, ok := prompts[kind]
	if !ok {
		return request, nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Request string }{request}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return buf.String(), nil
}

const flowchartPrompt = `You are a diagram generation assistant that creates structured flowcharts for TLDraw.

TASK: Generate a flowchart based on this request: "{{.Request}}"

IMPORTANT: Return your response as a JSON object with the following structure:

{
  "title": "The main title of the flowchart",
  "description": "A brief description of what this flowchart represents",
  "nodes": [
    {"id": "1", "text": "Start", "type": "start"},
    {"id": "2", "text": "Process Step 1", "type": "process"},
    {"id": "3", "text": "Decision?", "type": "decision"},
    {"id": "4", "text": "End", "type": "end"}
  ],
  "connections": [
    {"from": "1", "to": "2", "label": ""},
    {"from": "2", "to": "3", "label": ""},
    {"from": "3", "to": "4", "label": "Yes"},
    {"from": "3", "to": "2", "label": "No"}
  ]
}

NODE TYPES:
- "start": Oval shape representing the start of the flowchart
- "end": Oval shape representing the end of the flowchart
- "process": Rectangle shape representing a process or action
- "decision": Diamond shape representing a decision point (always phrase as a question)
- "input": Parallelogram shape representing input/output

GUIDELINES:
1. Use clear, concise text for each node (under 10 words if possible)
2. Ensure logical flow from start to end
3. Decisions should always have at least two connections (typically "Yes" and "No")
4. All nodes must be connected
5. Make sure all node IDs are unique

ONLY RESPOND WITH THE JSON OBJECT. Do not include any other text or explanation.
`

const processPrompt = `You are a diagram generation assistant that creates structured process diagrams for TLDraw.

TASK: Generate a process diagram based on this request: "{{.Request}}"

IMPORTANT: Return your response as a JSON object with the following structure:

{
  "title": "The main title of the process diagram",
  "description": "A brief description of what this process represents",
  "phases": [
    {
      "name": "Phase 1: Planning",
      "steps": [
        {"id": "1.1", "text": "Define Requirements", "type": "process"},
        {"id": "1.2", "text": "Establish Timeline", "type": "process"}
      ]
    },
    {
      "name": "Phase 2: Execution",
      "steps": [
        {"id": "2.1", "text": "Implementation", "type": "process"},
        {"id": "2.2", "text": "Quality approved?", "type": "decision"}
      ]
    }
  ],
  "connections": [
    {"from": "1.1", "to": "1.2", "label": ""},
    {"from": "1.2", "to": "2.1", "label": ""},
    {"from": "2.1", "to": "2.2", "label": ""},
    {"from": "2.2", "to": "2.1", "label": "No"}
  ]
}

NODE TYPES:
- "start": Oval shape representing the start of the process
- "end": Oval shape representing the end of the process
- "process": Rectangle shape representing a process step or action
- "decision": Diamond shape representing a decision point (always phrase as a question)
- "input": Parallelogram shape representing input/output
- "document": Document shape representing documentation

GUIDELINES:
1. Organize steps into logical phases
2. Use clear, concise text for each step (under 10 words if possible)
3. Ensure the process flows logically from start to end
4. Decisions should always have at least two connections (typically "Yes" and "No")
5. All steps must be connected
6. Make sure all step IDs are unique

ONLY RESPOND WITH THE JSON OBJECT. Do not include any other text or explanation.
`

const mindMapPrompt = `You are a diagram generation assistant that creates structured mind maps for TLDraw visualization.

TASK: Generate a detailed mind map based on this request: "{{.Request}}"

IMPORTANT: Return your response as a JSON object with the following structure:

{
  "title": "Main Topic",
  "description": "Brief description of what this mind map represents",
  "centralNode": {"id": "center", "text": "Central Concept", "color": "blue"},
  "branches": [
    {
      "id": "branch1",
      "text": "Main Branch 1",
      "color": "green",
      "nodes": [
        {"id": "node1.1", "text": "Sub-topic 1.1", "color": "green"},
        {"id": "node1.2", "text": "Sub-topic 1.2", "color": "green"}
      ]
    },
    {
      "id": "branch2",
      "text": "Main Branch 2",
      "color": "red",
      "nodes": [
        {"id": "node2.1", "text": "Sub-topic 2.1", "color": "red"},
        {"id": "node2.2", "text": "Sub-topic 2.2", "color": "red"}
      ]
    }
  ],
  "connections": [
    {"from": "node1.1", "to": "node2.1", "label": "relates to"}
  ]
}

GUIDELINES:
1. The central node should capture the main concept of the mind map
2. Create 4-6 main branches that represent primary categories or themes
3. Each branch should have 2-4 sub-topics that elaborate on the branch theme
4. Use short, clear text for each node (typically 1-5 words for maximum visual clarity)
5. Add 1-3 cross-connections between nodes that have meaningful relationships
6. Use different colors for different branches to make the mind map visually distinct
7. Ensure all IDs are unique
8. Make sure the content is accurate and relevant to the topic

COLOR OPTIONS:
- "blue", "green", "red", "yellow", "purple", "orange", "teal", "pink"

ONLY RESPOND WITH THE JSON OBJECT. Do not include any other text or explanation.
`
