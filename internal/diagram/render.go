package diagram

import (
	"github.com/GriffinCanCode/CanvasAI/backend/internal/llm"
)

// Diagram is a rendered completion.
type Diagram struct {
	// Structured is true when the shapes came from a JSON document.
	Structured  bool
	Title       string
	Description string
	Shapes      []Shape
}

// Render builds the diagram for kind from a completion. Unknown kinds are
// drawn as flowcharts.
func Render(kind llm.Kind, res llm.Result) Diagram {
	doc, ok := res.Document()
	if !ok {
		doc, ok = llm.ExtractJSON(res.Text)
	}

	var d Diagram
	if ok {
		d = renderDocument(kind, doc)
	} else {
		d = renderText(kind, res.Text)
	}

	if len(d.Shapes) == 0 {
		d.Shapes = []Shape{ErrorShape("Error generating diagram: the model returned no usable content")}
	}
	return d
}

func renderDocument(kind llm.Kind, data []byte) Diagram {
	switch kind {
	case llm.KindProcess:
		doc, err := decode[ProcessDoc](data)
		if err != nil {
			return failed("process diagram", err)
		}
		return structured(doc.Title, doc.Description, Process(doc))
	case llm.KindMindMap:
		doc, err := decode[MindMapDoc](data)
		if err != nil {
			return failed("mind map", err)
		}
		return structured(doc.Title, doc.Description, MindMap(doc))
	default:
		doc, err := decode[FlowchartDoc](data)
		if err != nil {
			return failed("diagram", err)
		}
		return structured(doc.Title, doc.Description, Flowchart(doc))
	}
}

func renderText(kind llm.Kind, text string) Diagram {
	switch kind {
	case llm.KindProcess:
		return Diagram{Shapes: ProcessFromText(text)}
	case llm.KindMindMap:
		return Diagram{Shapes: MindMapFromText(text)}
	default:
		return Diagram{Shapes: FlowchartFromText(text)}
	}
}

func structured(title, description string, shapes []Shape) Diagram {
	return Diagram{
		Structured:  true,
		Title:       cleanText(title),
		Description: cleanText(description),
		Shapes:      shapes,
	}
}

func failed(what string, err error) Diagram {
	return Diagram{Shapes: []Shape{ErrorShape("Error generating " + what + ": " + err.Error())}}
}
