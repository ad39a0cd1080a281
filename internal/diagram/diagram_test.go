package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/llm"
)

func shapesOfType(shapes []Shape, typ string) []Shape {
	var out []Shape
	for _, s := range shapes {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Start", "Start"},
		{"markup stripped", "<b>Check</b> input", "Check input"},
		{"script dropped", "<script>alert(1)</script>Hi", "Hi"},
		{"entities restored", "Yes & No", "Yes & No"},
		{"whitespace collapsed", "  a \n\t b  ", "a b"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanLabel(tt.in))
		})
	}

	long := cleanLabel(strings.Repeat("x", 500))
	assert.Len(t, []rune(long), maxLabelLen)
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestPaletteColor(t *testing.T) {
	assert.Equal(t, ColorViolet, paletteColor("Purple", ColorBlue))
	assert.Equal(t, ColorGrey, paletteColor("gray", ColorBlue))
	assert.Equal(t, ColorGreen, paletteColor(" green ", ColorBlue))
	assert.Equal(t, ColorBlue, paletteColor("chartreuse", ColorBlue))
	assert.Equal(t, ColorRed, paletteColor("", ColorRed))
}

func TestNodeIDAcceptsNumbers(t *testing.T) {
	doc, err := decode[FlowchartDoc]([]byte(`{
		"nodes": [{"id": 1, "text": "A"}, {"id": "2", "text": "B"}, {"id": null, "text": "C"}],
		"connections": [{"from": 1, "to": "2"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, NodeID("1"), doc.Nodes[0].ID)
	assert.Equal(t, NodeID("2"), doc.Nodes[1].ID)
	assert.Equal(t, NodeID(""), doc.Nodes[2].ID)
	assert.Equal(t, NodeID("1"), doc.Connections[0].From)

	_, err = decode[FlowchartDoc]([]byte(`{"nodes": [{"id": {"x": 1}}]}`))
	assert.Error(t, err)
}

func TestFlowchartStyles(t *testing.T) {
	shapes := Flowchart(FlowchartDoc{
		Title: "Login",
		Nodes: []FlowNode{
			{ID: "1", Text: "Start", Type: "start"},
			{ID: "2", Text: "Enter password", Type: "input"},
			{ID: "3", Text: "Valid?", Type: "decision"},
			{ID: "4", Text: "End", Type: "end"},
		},
		Connections: []Connection{
			{From: "1", To: "2"},
			{From: "2", To: "3"},
			{From: "3", To: "4", Label: "Yes"},
			{From: "3", To: "2", Label: "<i>No</i>"},
			{From: "3", To: "99"},
		},
	})

	require.Equal(t, TypeText, shapes[0].Type)
	assert.Equal(t, "Login", shapes[0].Props.Text)
	assert.Equal(t, "xl", shapes[0].Props.Size)
	assert.Equal(t, 100.0, shapes[0].X)
	assert.Equal(t, 50.0, shapes[0].Y)

	geos := shapesOfType(shapes, TypeGeo)
	require.Len(t, geos, 4)

	want := []struct {
		geo, color string
		w, h       float64
	}{
		{GeoEllipse, ColorBlue, 160, 80},
		{GeoParallelogram, ColorLightBlue, 160, 80},
		{GeoDiamond, ColorOrange, 180, 100},
		{GeoEllipse, ColorGreen, 160, 80},
	}
	for i, w := range want {
		assert.Equal(t, w.geo, geos[i].Props.Geo, "node %d", i)
		assert.Equal(t, w.color, geos[i].Props.Color, "node %d", i)
		assert.Equal(t, w.w, geos[i].Props.W, "node %d", i)
		assert.Equal(t, w.h, geos[i].Props.H, "node %d", i)
	}

	// The No edge makes the graph cyclic, so the grid is used: two columns.
	assert.Equal(t, Point{X: 100, Y: 150}, Point{X: geos[0].X, Y: geos[0].Y})
	assert.Equal(t, Point{X: 350, Y: 150}, Point{X: geos[1].X, Y: geos[1].Y})
	assert.Equal(t, Point{X: 100, Y: 300}, Point{X: geos[2].X, Y: geos[2].Y})
	assert.Equal(t, Point{X: 350, Y: 300}, Point{X: geos[3].X, Y: geos[3].Y})

	assert.Len(t, shapesOfType(shapes, TypeArrow), 4, "the edge to an unknown node is skipped")

	var labels []string
	for _, s := range shapesOfType(shapes, TypeText)[1:] {
		labels = append(labels, s.Props.Text)
		assert.Equal(t, "s", s.Props.Size)
	}
	assert.Equal(t, []string{"Yes", "No"}, labels)
}

func TestFlowchartLayersAcyclicGraphs(t *testing.T) {
	shapes := Flowchart(FlowchartDoc{
		Nodes: []FlowNode{
			{ID: "a", Text: "Start", Type: "start"},
			{ID: "b", Text: "Work"},
			{ID: "c", Text: "End", Type: "end"},
		},
		Connections: []Connection{{From: "a", To: "b"}, {From: "b", To: "c"}},
	})

	assert.Equal(t, "Flowchart", shapes[0].Props.Text)

	geos := shapesOfType(shapes, TypeGeo)
	require.Len(t, geos, 3)
	for i, g := range geos {
		assert.Equal(t, 100.0, g.X)
		assert.Equal(t, 150.0+float64(i)*150, g.Y)
	}

	arrows := shapesOfType(shapes, TypeArrow)
	require.Len(t, arrows, 2)
	assert.Equal(t, geos[0].Center(), Point{X: arrows[0].X, Y: arrows[0].Y})
	assert.Equal(t, &Point{}, arrows[0].Props.Start)
	assert.Equal(t, &Point{X: 0, Y: 150}, arrows[0].Props.End)
	assert.Equal(t, ColorBlack, arrows[0].Props.Color)
}

func TestFlowchartDefaults(t *testing.T) {
	shapes := Flowchart(FlowchartDoc{Nodes: []FlowNode{{}, {Text: "  "}}})

	geos := shapesOfType(shapes, TypeGeo)
	require.Len(t, geos, 2)
	assert.Equal(t, "Node 1", geos[0].Props.Text)
	assert.Equal(t, "Node 2", geos[1].Props.Text)
	assert.Equal(t, GeoRectangle, geos[0].Props.Geo)
}

func TestProcess(t *testing.T) {
	doc := ProcessDoc{
		Title: "Release",
		Phases: []ProcessPhase{
			{Name: "Plan", Steps: []FlowNode{{ID: "1.1", Text: "Scope"}, {ID: "1.2", Text: "Schedule"}}},
			{Name: "Ship", Steps: []FlowNode{{ID: "2.1", Text: "Approved?", Type: "decision"}}},
		},
	}

	flat := doc.Flatten()
	require.Len(t, flat.Nodes, 3)
	assert.Equal(t, []Connection{{From: "1.1", To: "1.2"}, {From: "1.2", To: "2.1"}}, flat.Connections)

	shapes := Process(doc)
	geos := shapesOfType(shapes, TypeGeo)
	require.Len(t, geos, 3)
	for _, g := range geos {
		assert.Equal(t, "solid", g.Props.Dash)
	}
	assert.Equal(t, ColorLightGreen, geos[0].Props.Color)
	assert.Equal(t, ColorLightGreen, geos[1].Props.Color)
	assert.Equal(t, ColorOrange, geos[2].Props.Color)
	assert.Len(t, shapesOfType(shapes, TypeArrow), 2)
	assert.Equal(t, "Release", shapes[0].Props.Text)
}

func TestProcessKeepsExplicitConnections(t *testing.T) {
	doc := ProcessDoc{
		Nodes:       []FlowNode{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Connections: []Connection{{From: "a", To: "c"}},
	}
	assert.Equal(t, []Connection{{From: "a", To: "c"}}, doc.Flatten().Connections)
}

func TestMindMap(t *testing.T) {
	shapes := MindMap(MindMapDoc{
		Title:       "Go",
		CentralNode: &MindNode{ID: "center", Text: "Go", Color: "purple"},
		Branches: []MindNode{
			{ID: "b1", Text: "Concurrency", Color: "green", Nodes: []MindNode{
				{ID: "n1", Text: "Goroutines"},
				{ID: "n2", Text: "Channels", Color: "teal"},
			}},
			{ID: "b2", Text: "Tooling", Nodes: []MindNode{
				{ID: "n3", Text: "go vet"},
				{ID: "n4", Text: "gofmt"},
			}},
		},
		Connections: []Connection{
			{From: "n2", To: "n3", Label: "relates to"},
			{From: "n1", To: "missing"},
		},
	})

	require.Len(t, shapes, 16)

	title, central := shapes[0], shapes[1]
	assert.Equal(t, "Go", title.Props.Text)
	assert.Equal(t, 300.0, title.X)
	assert.Equal(t, GeoEllipse, central.Props.Geo)
	assert.Equal(t, ColorViolet, central.Props.Color)
	assert.Equal(t, "solid", central.Props.Fill)
	assert.Equal(t, Point{X: 300, Y: 250}, Point{X: central.X, Y: central.Y})

	first := shapes[2]
	assert.Equal(t, "Concurrency", first.Props.Text)
	assert.Equal(t, ColorGreen, first.Props.Color)
	assert.InDelta(t, 570, first.X, 1e-9)
	assert.InDelta(t, 260, first.Y, 1e-9)

	second := shapes[8]
	assert.Equal(t, "Tooling", second.Props.Text)
	assert.Equal(t, ColorGreen, second.Props.Color, "second branch falls back to the palette")
	assert.InDelta(t, 70, second.X, 1e-9)
	assert.InDelta(t, 260, second.Y, 1e-9)

	sub := shapes[6]
	assert.Equal(t, "Channels", sub.Props.Text)
	assert.Equal(t, ColorLightBlue, sub.Props.Color)
	assert.Equal(t, 140.0, sub.Props.W)
	assert.Equal(t, "draw", sub.Props.Dash)

	cross := shapes[15]
	assert.Equal(t, TypeArrow, cross.Type)
	assert.Equal(t, ColorGrey, cross.Props.Color)
	assert.Equal(t, "dashed", cross.Props.Dash)
	assert.Equal(t, "relates to", shapes[14].Props.Text)
}

func TestMindMapDefaults(t *testing.T) {
	shapes := MindMap(MindMapDoc{Branches: []MindNode{{}}})

	require.Len(t, shapes, 4)
	assert.Equal(t, "Mind Map", shapes[0].Props.Text)
	assert.Equal(t, "Central Topic", shapes[1].Props.Text)
	assert.Equal(t, ColorBlue, shapes[1].Props.Color)
	assert.Equal(t, "Branch 1", shapes[2].Props.Text)
	assert.Equal(t, ColorBlue, shapes[2].Props.Color)
}

func TestExtractSteps(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"labelled", "Intro\nStep: Open app\nDecision: Logged in?\nAction: Show home", []string{"Open app", "Logged in?", "Show home"}},
		{"numbered list", "Here is the flow:\n1. Begin\n2. Validate input\n3) Done", []string{"Begin", "Validate input", "Done"}},
		{"bullets", "- Wash\n* Rinse\n• Repeat", []string{"Wash", "Rinse", "Repeat"}},
		{"lines", "Boil water\n\nAdd pasta\nDrain", []string{"Boil water", "Add pasta", "Drain"}},
		{"empty", "  \n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSteps(tt.text))
		})
	}

	many := strings.Repeat("line\n", 25)
	assert.Len(t, extractSteps(many), maxTextNodes)
}

func TestFlowchartFromText(t *testing.T) {
	shapes := FlowchartFromText("Start here\nCheck if valid?\nSave record\nFinish")

	geos := shapesOfType(shapes, TypeGeo)
	require.Len(t, geos, 4)
	assert.Equal(t, GeoEllipse, geos[0].Props.Geo)
	assert.Equal(t, ColorBlue, geos[0].Props.Color)
	assert.Equal(t, GeoDiamond, geos[1].Props.Geo)
	assert.Equal(t, ColorOrange, geos[1].Props.Color)
	assert.Equal(t, GeoRectangle, geos[2].Props.Geo)
	assert.Equal(t, ColorLightBlue, geos[2].Props.Color)
	assert.Equal(t, GeoEllipse, geos[3].Props.Geo)
	assert.Equal(t, ColorGreen, geos[3].Props.Color)

	assert.Equal(t, 100.0, geos[0].Y)
	assert.Equal(t, 600.0, geos[2].X)
	assert.Equal(t, 100.0, geos[3].X)
	assert.Equal(t, 250.0, geos[3].Y)

	assert.Len(t, shapesOfType(shapes, TypeArrow), 3)
}

func TestProcessFromText(t *testing.T) {
	geos := shapesOfType(ProcessFromText("1. Draft\n2. Review"), TypeGeo)
	require.Len(t, geos, 2)
	for _, g := range geos {
		assert.Equal(t, ColorLightGreen, g.Props.Color)
		assert.Equal(t, "solid", g.Props.Dash)
	}
}

func TestExtractTopics(t *testing.T) {
	t.Run("labelled", func(t *testing.T) {
		text := "Main topic: Go\nBranch: Concurrency\nBranch: Tooling\nSub-topic: Channels"
		assert.Equal(t, []string{"Go", "Concurrency", "Tooling", "Channels"}, extractTopics(text))
	})

	t.Run("list", func(t *testing.T) {
		text := "Cooking\n- Baking\n- Frying\n- Baking\n- Boiling"
		assert.Equal(t, []string{"Cooking", "Baking", "Frying", "Boiling"}, extractTopics(text))
	})

	t.Run("capped", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Root: Everything\n")
		for i := 0; i < 20; i++ {
			b.WriteString("- item ")
			b.WriteString(strings.Repeat("x", i+1))
			b.WriteString("\n")
		}
		assert.Len(t, extractTopics(b.String()), maxBranches+1)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, []string{"Central Topic"}, extractTopics(""))
	})
}

func TestMindMapFromText(t *testing.T) {
	shapes := MindMapFromText("Cooking\n- Baking\n- Frying")

	require.Len(t, shapes, 5)
	assert.Equal(t, "Cooking", shapes[0].Props.Text)
	assert.Equal(t, ColorViolet, shapes[0].Props.Color)
	assert.Equal(t, "Baking", shapes[1].Props.Text)
	assert.Equal(t, ColorBlue, shapes[1].Props.Color)
	assert.Equal(t, TypeArrow, shapes[2].Type)
	assert.Equal(t, ColorGreen, shapes[3].Props.Color)
}

func TestRender(t *testing.T) {
	t.Run("structured flowchart", func(t *testing.T) {
		text := "```json\n{\"title\":\"Signup\",\"description\":\"How users join\",\"nodes\":[{\"id\":\"1\",\"text\":\"Start\",\"type\":\"start\"}],\"connections\":[]}\n```"
		d := Render(llm.KindFlowchart, llm.Result{Kind: llm.KindFlowchart, Text: text})

		assert.True(t, d.Structured)
		assert.Equal(t, "Signup", d.Title)
		assert.Equal(t, "How users join", d.Description)
		assert.Len(t, d.Shapes, 2)
	})

	t.Run("structured mind map", func(t *testing.T) {
		text := `{"title":"Pets","branches":[{"text":"Cats"},{"text":"Dogs"}]}`
		d := Render(llm.KindMindMap, llm.Result{Text: text})

		assert.True(t, d.Structured)
		assert.Equal(t, "Pets", d.Title)
		assert.Len(t, shapesOfType(d.Shapes, TypeGeo), 3)
	})

	t.Run("structured process", func(t *testing.T) {
		text := `{"title":"Ship","phases":[{"name":"P","steps":[{"id":"1","text":"Build"},{"id":"2","text":"Test"}]}]}`
		d := Render(llm.KindProcess, llm.Result{Text: text})

		assert.True(t, d.Structured)
		assert.Len(t, shapesOfType(d.Shapes, TypeArrow), 1)
	})

	t.Run("text fallback", func(t *testing.T) {
		d := Render(llm.KindGeneral, llm.Result{Text: "1. Wake up\n2. Coffee"})

		assert.False(t, d.Structured)
		assert.Empty(t, d.Title)
		assert.Len(t, shapesOfType(d.Shapes, TypeGeo), 2)
	})

	t.Run("document with the wrong shape", func(t *testing.T) {
		d := Render(llm.KindFlowchart, llm.Result{Text: `{"nodes":"oops"}`})

		require.Len(t, d.Shapes, 1)
		assert.Equal(t, ColorRed, d.Shapes[0].Props.Color)
		assert.True(t, strings.HasPrefix(d.Shapes[0].Props.Text, "Error generating diagram: "))
		assert.False(t, d.Structured)
	})

	t.Run("nothing usable", func(t *testing.T) {
		d := Render(llm.KindFlowchart, llm.Result{Text: "   "})

		require.Len(t, d.Shapes, 1)
		assert.Equal(t, ErrorShape("Error generating diagram: the model returned no usable content"), d.Shapes[0])
	})
}
