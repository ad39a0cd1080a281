package diagram

import (
	"fmt"
	"strings"
)

const (
	flowStartX = 100.0
	flowStartY = 150.0
)

// nodeStyle maps a node type to its geometry, colour and size.
func nodeStyle(nodeType string) (geo, color string, w, h float64) {
	geo, color = GeoRectangle, ColorLightBlue

	switch strings.ToLower(strings.TrimSpace(nodeType)) {
	case "start":
		geo, color = GeoEllipse, ColorBlue
	case "end":
		geo, color = GeoEllipse, ColorGreen
	case "decision":
		geo, color = GeoDiamond, ColorOrange
	case "input", "output":
		geo = GeoParallelogram
	}

	if geo == GeoDiamond {
		return geo, color, 180, 100
	}
	return geo, color, 160, 80
}

// Flowchart lays out doc. Acyclic graphs are layered top to bottom;
// anything else uses a grid of at most three columns.
func Flowchart(doc FlowchartDoc) []Shape {
	return flowchart(doc, "Flowchart")
}

func flowchart(doc FlowchartDoc, defaultTitle string) []Shape {
	shapes := []Shape{titleShape(100, 50, labelOr(doc.Title, defaultTitle))}

	index := make(map[NodeID]int, len(doc.Nodes))
	for i, node := range doc.Nodes {
		id := node.ID
		if id == "" {
			id = NodeID(fmt.Sprint(i + 1))
		}
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}

	var edges [][2]int
	for _, conn := range doc.Connections {
		from, okFrom := index[conn.From]
		to, okTo := index[conn.To]
		if okFrom && okTo {
			edges = append(edges, [2]int{from, to})
		}
	}

	cells, ok := layeredLayout(len(doc.Nodes), edges)
	if !ok {
		cells = gridLayout(len(doc.Nodes))
	}

	nodes := make([]Shape, len(doc.Nodes))
	for i, node := range doc.Nodes {
		geo, color, w, h := nodeStyle(node.Type)
		x := flowStartX + float64(cells[i].col)*colWidth
		y := flowStartY + float64(cells[i].row)*rowHeight
		nodes[i] = geoShape(x, y, w, h, geo, color, labelOr(node.Text, fmt.Sprintf("Node %d", i+1)))
	}
	shapes = append(shapes, nodes...)

	for _, conn := range doc.Connections {
		from, okFrom := index[conn.From]
		to, okTo := index[conn.To]
		if !okFrom || !okTo {
			continue
		}
		a, b := nodes[from].Center(), nodes[to].Center()

		if label := cleanLabel(conn.Label); label != "" {
			mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			shapes = append(shapes, labelShape(mid.X+15, mid.Y-15, label))
		}
		shapes = append(shapes, arrowShape(a, b, ColorBlack, "draw", "m"))
	}
	return shapes
}

// Process renders a process document: phases are flattened into a
// flowchart, geo shapes get solid outlines and plain steps turn light green.
func Process(doc ProcessDoc) []Shape {
	return styleProcess(flowchart(doc.Flatten(), "Process"))
}

func styleProcess(shapes []Shape) []Shape {
	for i := range shapes {
		if shapes[i].Type != TypeGeo {
			continue
		}
		shapes[i].Props.Dash = "solid"
		if shapes[i].Props.Geo == GeoRectangle {
			shapes[i].Props.Color = ColorLightGreen
		}
	}
	return shapes
}
